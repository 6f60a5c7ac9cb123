// Package client is the only place that talks to the project-tracking backend.
//
// # Overview
//
// The package provides:
//  1. The backend contract (Client) used by the services layer: login and
//     registration, project CRUD and user administration.
//  2. HTTPClient, the remote gateway. It attaches "Authorization: Bearer" from
//     a CredentialStore to every call except login/register, encodes project
//     writes as multipart/form-data and everything else as JSON, and turns the
//     server's loosely shaped JSON into canonical models values.
//  3. Local persistence bootstrap (OpenDatabase, RunMigrations) shared by the
//     session store and the local backend.
//
// # Error Handling
//
// Failures are sentinel errors matched with errors.Is: ErrUnauthorized (the
// stored credential was rejected; the CredentialStore has already been
// invalidated), ErrInvalidCredentials, ErrForbidden, ErrNotFound,
// ErrBadRequest, ErrServer, ErrUnavailable and ErrMalformedResponse. HTTP
// failures additionally carry an *APIError with the status code and the
// server's message. Nothing is retried.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call takes a context and stops
// waiting when it is cancelled.
package client

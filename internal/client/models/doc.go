// Package models defines the client-side data model: identities, projects and
// the inputs used to create or change them.
//
// Incoming data is normalized into these types at the gateway boundary, so
// statuses are always one of the closed Status values and projects always
// carry a single AssignedUsers list, whatever shape the server used.
package models

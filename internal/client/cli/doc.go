// Package cli provides the interactive projecthub command-line client.
//
// The REPL started by App.Run logs users in and out, browses and edits the
// project directory and, for administrators, manages user accounts. Every
// command goes through the services package; an expired session sends the
// user back to the login prompt.
package cli

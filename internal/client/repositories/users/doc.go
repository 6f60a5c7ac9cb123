// Package users persists local backend accounts in the "local_users" table.
// Passwords are stored only as bcrypt hashes; the hash never leaves this
// package's Record type.
package users

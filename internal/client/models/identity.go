package models

import (
	"strings"

	"golang.org/x/text/cases"
)

// Role is the authorization level of an Identity.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var folder = cases.Fold()

// ParseRole maps any casing of "user"/"admin" to a Role. Unknown values fall
// back to RoleUser so a malformed record never gains admin rights.
func ParseRole(s string) Role {
	if folder.String(strings.TrimSpace(s)) == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is an authenticated user record.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

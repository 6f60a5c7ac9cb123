package models

import (
	"strings"
)

// Status is the closed set of project states. Both vocabularies seen on the
// wire ("In Progress"/"Completed"/"Pending" and "active"/"in-progress"/
// "completed"/"pending") collapse into these values in ParseStatus.
type Status int

const (
	StatusPending Status = iota
	StatusActive
	StatusCompleted
)

// ParseStatus converts a raw status string into a Status. Unrecognised or
// empty input is treated as pending.
func ParseStatus(raw string) Status {
	s := folder.String(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)

	switch s {
	case "active", "in-progress", "inprogress":
		return StatusActive
	case "completed", "complete", "done":
		return StatusCompleted
	default:
		return StatusPending
	}
}

// String returns the lower-kebab wire form.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "pending"
	}
}

// Label returns the title-case form shown to people.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Pending"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

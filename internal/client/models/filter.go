package models

import (
	"strings"
)

// ProjectFilter narrows a project list the way the list screen does: a
// case-insensitive title search plus an optional status.
type ProjectFilter struct {
	Search string
	Status *Status
}

// Match reports whether p passes the filter.
func (f ProjectFilter) Match(p Project) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	return strings.Contains(folder.String(p.Title), folder.String(f.Search))
}

// Filter returns the projects that match f, preserving order.
func Filter(projects []Project, f ProjectFilter) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Visible returns the projects identity may observe.
func Visible(identity Identity, projects []Project) []Project {
	if identity.IsAdmin() {
		return projects
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.VisibleTo(identity) {
			out = append(out, p)
		}
	}
	return out
}

// Summary holds the per-status counts shown on the dashboard.
type Summary struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
}

func Summarize(projects []Project) Summary {
	s := Summary{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case StatusActive:
			s.InProgress++
		case StatusCompleted:
			s.Completed++
		default:
			s.Pending++
		}
	}
	return s
}

package models

import (
	"slices"
	"time"
)

// DateLayout is the calendar-date form used for start and end dates.
const DateLayout = "2006-01-02"

// Project is the canonical client-side project record.
type Project struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        Status    `json:"status"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	AssignedUsers []string  `json:"assignedUsers"`
	Attachments   []string  `json:"attachments"`
}

// IsAssignedTo reports whether userID is among the project's assignees.
func (p Project) IsAssignedTo(userID string) bool {
	if userID == "" {
		return false
	}
	return slices.Contains(p.AssignedUsers, userID)
}

// VisibleTo reports whether identity may observe the project: admins see
// every project, everyone else only projects assigned to them.
func (p Project) VisibleTo(identity Identity) bool {
	if identity.IsAdmin() {
		return true
	}
	return p.IsAssignedTo(identity.ID)
}

// Apply returns a copy of p with the fields set in patch replaced.
// Attachment uploads are not applied: their references are only known once
// the backend has stored them.
func (p Project) Apply(patch ProjectPatch) Project {
	out := p.Clone()
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.Status != nil {
		out.Status = *patch.Status
	}
	return out
}

// Clone returns a deep copy so cached entries cannot be mutated by callers.
func (p Project) Clone() Project {
	out := p
	out.AssignedUsers = slices.Clone(p.AssignedUsers)
	out.Attachments = slices.Clone(p.Attachments)
	return out
}

// FileUpload is an attachment payload sent with a create or update.
type FileUpload struct {
	FileName string
	Data     []byte
}

// ProjectInput is the data needed to create a project.
type ProjectInput struct {
	Title         string    `validate:"required"`
	Description   string    `validate:"required"`
	Status        Status    `validate:"-"`
	StartDate     time.Time `validate:"required"`
	EndDate       time.Time `validate:"required,gtefield=StartDate"`
	AssignedUsers []string  `validate:"required,min=1,dive,required"`
	Attachments   []FileUpload
}

// ProjectPatch is a partial update. Nil fields are left untouched.
type ProjectPatch struct {
	Title       *string `validate:"omitempty,min=1"`
	Description *string
	Status      *Status
	Attachments []FileUpload
}

// IsEmpty reports whether the patch changes nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && len(p.Attachments) == 0
}

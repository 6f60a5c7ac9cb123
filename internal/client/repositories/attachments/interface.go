package attachments

import (
	"context"
)

// File is an uploaded attachment held by the local backend.
type File struct {
	ID        string
	ProjectID string
	FileName  string
	Data      []byte
}

// Repository describes storage operations for attachment payloads.
type Repository interface {
	// Create stores a new file. IDs are assigned by the caller.
	Create(ctx context.Context, f *File) error

	// GetByID returns common.ErrorNotFound when no file has the id.
	GetByID(ctx context.Context, id string) (*File, error)

	// DeleteByProjectID removes every file of a project and reports how many
	// were removed.
	DeleteByProjectID(ctx context.Context, projectID string) (int64, error)
}

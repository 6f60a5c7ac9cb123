package client

import (
	"context"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
)

// Client is the backend contract shared by the HTTP gateway and the local
// backend. Implementations normalize every response into models types.
type Client interface {
	Close() error

	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, in models.UserInput) (*models.Identity, error)

	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]models.Identity, error)
	CreateUser(ctx context.Context, in models.UserInput) (*models.Identity, error)
}

// AuthResult is a successful login: who logged in and the bearer token
// proving it.
type AuthResult struct {
	Identity models.Identity
	Token    string
}

// CredentialStore supplies the bearer token for outgoing requests and is told
// when the backend rejected it.
type CredentialStore interface {
	// Token returns the current bearer token or "" when there is none.
	Token(ctx context.Context) string
	// Invalidate forgets the identity and token, in memory and durably.
	Invalidate(ctx context.Context)
}

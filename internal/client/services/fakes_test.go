package services

import (
	"context"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
)

// ---- fake client ----

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	// behaviour / results
	CloseErr error

	LoginRet *client.AuthResult
	LoginErr error

	RegisterRet *models.Identity
	RegisterErr error

	ListProjectsRet []models.Project
	ListProjectsErr error

	GetProjectRet *models.Project
	GetProjectErr error

	CreateProjectRet *models.Project
	CreateProjectErr error

	UpdateProjectRet *models.Project
	UpdateProjectErr error

	DeleteProjectErr error

	ListUsersRet []models.Identity
	ListUsersErr error

	CreateUserRet *models.Identity
	CreateUserErr error

	// argument capture
	Calls int

	LastLoginEmail    string
	LastLoginPassword string
	LastRegister      models.UserInput
	LastGetID         string
	LastCreate        models.ProjectInput
	LastUpdateID      string
	LastUpdatePatch   models.ProjectPatch
	LastDeleteID      string
	LastCreateUser    models.UserInput

	// hook run inside ListProjects, before returning
	OnListProjects func()
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	f.Calls++
	f.LastLoginEmail, f.LastLoginPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, in models.UserInput) (*models.Identity, error) {
	f.Calls++
	f.LastRegister = in
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	f.Calls++
	if f.OnListProjects != nil {
		f.OnListProjects()
	}
	return f.ListProjectsRet, f.ListProjectsErr
}

func (f *fakeClient) GetProject(ctx context.Context, id string) (*models.Project, error) {
	f.Calls++
	f.LastGetID = id
	return f.GetProjectRet, f.GetProjectErr
}

func (f *fakeClient) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	f.Calls++
	f.LastCreate = in
	return f.CreateProjectRet, f.CreateProjectErr
}

func (f *fakeClient) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	f.Calls++
	f.LastUpdateID, f.LastUpdatePatch = id, patch
	return f.UpdateProjectRet, f.UpdateProjectErr
}

func (f *fakeClient) DeleteProject(ctx context.Context, id string) error {
	f.Calls++
	f.LastDeleteID = id
	return f.DeleteProjectErr
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.Identity, error) {
	f.Calls++
	return f.ListUsersRet, f.ListUsersErr
}

func (f *fakeClient) CreateUser(ctx context.Context, in models.UserInput) (*models.Identity, error) {
	f.Calls++
	f.LastCreateUser = in
	return f.CreateUserRet, f.CreateUserErr
}

// ---- fake session ----

type fakeSession struct {
	identity models.Identity
	token    string

	EstablishErr error
	ClearCalls   int
}

func (s *fakeSession) Establish(ctx context.Context, identity models.Identity, token string) error {
	if s.EstablishErr != nil {
		return s.EstablishErr
	}
	s.identity, s.token = identity, token
	return nil
}

func (s *fakeSession) Clear(ctx context.Context) error {
	s.ClearCalls++
	s.identity, s.token = models.Identity{}, ""
	return nil
}

func (s *fakeSession) Identity() (models.Identity, bool) {
	return s.identity, s.token != ""
}

var (
	adminID = models.Identity{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: models.RoleAdmin}
	userID  = models.Identity{ID: "2", Name: "John Doe", Email: "user@example.com", Role: models.RoleUser}
)

func loggedIn(identity models.Identity) *fakeSession {
	return &fakeSession{identity: identity, token: "tok"}
}

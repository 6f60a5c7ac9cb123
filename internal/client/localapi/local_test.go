package localapi

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
)

type fakeCreds struct {
	token       string
	invalidated int
}

func (f *fakeCreds) Token(context.Context) string { return f.token }

func (f *fakeCreds) Invalidate(context.Context) {
	f.invalidated++
	f.token = ""
}

type fixture struct {
	db    *sql.DB
	creds *fakeCreds
	api   *LocalClient
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := client.OpenDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{db: db, creds: &fakeCreds{}, now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.api, err = New(Config{
		DB:          db,
		Credentials: f.creds,
		Secret:      []byte("test-secret"),
		TokenTTL:    time.Hour,
		HashCost:    bcrypt.MinCost,
		Now:         func() time.Time { return f.now },
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) login(t *testing.T, email string) models.Identity {
	t.Helper()
	res, err := f.api.Login(context.Background(), email, SeedPassword)
	require.NoError(t, err)
	f.creds.token = res.Token
	return res.Identity
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.StatusCode
}

func validInput() models.ProjectInput {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return models.ProjectInput{
		Title:         "Mobile App",
		Description:   "Build the app",
		Status:        models.StatusPending,
		StartDate:     start,
		EndDate:       start.AddDate(0, 3, 0),
		AssignedUsers: []string{"2"},
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	_, err = New(Config{DB: &sql.DB{}})
	require.Error(t, err)
	_, err = New(Config{DB: &sql.DB{}, Credentials: &fakeCreds{}})
	require.Error(t, err)
}

func TestLogin_SeededAdmin(t *testing.T) {
	f := newFixture(t)

	res, err := f.api.Login(context.Background(), "admin@example.com", "password")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.Identity{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: models.RoleAdmin}, res.Identity)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.api.Login(ctx, "nope@x.com", "bad")
	require.ErrorIs(t, err, client.ErrInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = f.api.Login(ctx, "admin@example.com", "wrong")
	require.ErrorIs(t, err, client.ErrInvalidCredentials)
	assert.Zero(t, f.creds.invalidated)
}

func TestListProjects_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.login(t, SeedAdminEmail)
	input := validInput()
	input.AssignedUsers = []string{"someone-else"}
	_, err := f.api.CreateProject(ctx, input)
	require.NoError(t, err)

	all, err := f.api.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	f.login(t, SeedUserEmail)
	mine, err := f.api.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Website Redesign", mine[0].Title)
	assert.Equal(t, models.StatusActive, mine[0].Status)
	assert.Equal(t, "2023-12-31", mine[0].EndDate.Format(models.DateLayout))
}

func TestGetProject_HiddenIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.login(t, SeedAdminEmail)
	input := validInput()
	input.AssignedUsers = []string{"1"}
	created, err := f.api.CreateProject(ctx, input)
	require.NoError(t, err)

	f.login(t, SeedUserEmail)
	_, err = f.api.GetProject(ctx, created.ID)
	require.ErrorIs(t, err, client.ErrNotFound)

	p, err := f.api.GetProject(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)
}

func TestUnauthenticated_InvalidatesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.api.ListProjects(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 1, f.creds.invalidated)

	f.creds.token = "garbage"
	_, err = f.api.ListProjects(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 2, f.creds.invalidated)
	assert.Empty(t, f.creds.token)
}

func TestExpiredToken_InvalidatesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, SeedAdminEmail)

	f.now = f.now.Add(2 * time.Hour)

	_, err := f.api.ListProjects(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Token expired", apiErr.Message)
	assert.Equal(t, 1, f.creds.invalidated)
}

func TestAdminOnlyOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, SeedUserEmail)

	_, err := f.api.ListUsers(ctx)
	require.ErrorIs(t, err, client.ErrForbidden)

	_, err = f.api.CreateUser(ctx, models.UserInput{Name: "X", Email: "x@example.com", Password: "secret1", Role: models.RoleUser})
	require.ErrorIs(t, err, client.ErrForbidden)

	_, err = f.api.CreateProject(ctx, validInput())
	require.ErrorIs(t, err, client.ErrForbidden)

	err = f.api.DeleteProject(ctx, "1")
	require.ErrorIs(t, err, client.ErrForbidden)

	assert.Zero(t, f.creds.invalidated, "403 must not end the session")
}

func TestCreateProject_WithAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, SeedAdminEmail)

	input := validInput()
	input.Attachments = []models.FileUpload{{FileName: "/home/me/brief.pdf", Data: []byte("%PDF")}}

	p, err := f.api.CreateProject(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	require.Len(t, p.Attachments, 1)
	assert.True(t, strings.HasPrefix(p.Attachments[0], AttachmentScheme))
	assert.True(t, strings.HasSuffix(p.Attachments[0], "/brief.pdf"))

	file, err := f.api.Attachment(ctx, p.Attachments[0])
	require.NoError(t, err)
	assert.Equal(t, "brief.pdf", file.FileName)
	assert.Equal(t, []byte("%PDF"), file.Data)

	got, err := f.api.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = f.api.Attachment(ctx, "https://elsewhere/x")
	require.ErrorIs(t, err, client.ErrBadRequest)
}

func TestUpdateProject_OnlyStatusChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, SeedUserEmail)

	before, err := f.api.GetProject(ctx, "1")
	require.NoError(t, err)

	done := models.StatusCompleted
	after, err := f.api.UpdateProject(ctx, "1", models.ProjectPatch{Status: &done})
	require.NoError(t, err)

	want := before.Clone()
	want.Status = models.StatusCompleted
	assert.Equal(t, &want, after)

	stored, err := f.api.GetProject(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, after, stored)
}

func TestUpdateProject_UploadsReplaceAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, SeedAdminEmail)

	input := validInput()
	input.Attachments = []models.FileUpload{{FileName: "a.txt", Data: []byte("a")}}
	p, err := f.api.CreateProject(ctx, input)
	require.NoError(t, err)
	oldRef := p.Attachments[0]

	title := "Renamed"
	kept, err := f.api.UpdateProject(ctx, p.ID, models.ProjectPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, []string{oldRef}, kept.Attachments)

	replaced, err := f.api.UpdateProject(ctx, p.ID, models.ProjectPatch{
		Attachments: []models.FileUpload{{FileName: "b.txt", Data: []byte("b")}},
	})
	require.NoError(t, err)
	require.Len(t, replaced.Attachments, 1)
	assert.NotEqual(t, oldRef, replaced.Attachments[0])
	assert.Equal(t, "Renamed", replaced.Title)

	_, err = f.api.Attachment(ctx, oldRef)
	require.ErrorIs(t, err, client.ErrNotFound)
}

func TestUpdateProject_Missing(t *testing.T) {
	f := newFixture(t)
	f.login(t, SeedAdminEmail)

	title := "x"
	_, err := f.api.UpdateProject(context.Background(), "nope", models.ProjectPatch{Title: &title})
	require.ErrorIs(t, err, client.ErrNotFound)
}

func TestDeleteProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, SeedAdminEmail)

	require.NoError(t, f.api.DeleteProject(ctx, "1"))

	err := f.api.DeleteProject(ctx, "1")
	require.ErrorIs(t, err, client.ErrNotFound)

	all, err := f.api.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUsers_CreateListAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, SeedAdminEmail)

	created, err := f.api.CreateUser(ctx, models.UserInput{
		Name: "Carol", Email: "Carol@Example.com", Password: "secret1", Role: models.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", created.Email)
	assert.NotEmpty(t, created.ID)

	list, err := f.api.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, *created, list[2])

	_, err = f.api.CreateUser(ctx, models.UserInput{Name: "Dup", Email: "carol@example.com", Password: "secret1", Role: models.RoleUser})
	require.ErrorIs(t, err, client.ErrBadRequest)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	res, err := f.api.Login(ctx, "carol@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.Identity.ID)
}

func TestRegister_DoesNotNeedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.api.Register(ctx, models.UserInput{Name: "Dan", Email: "dan@example.com", Password: "secret1", Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, id.Role)
	assert.Zero(t, f.creds.invalidated)
	assert.Empty(t, f.creds.token, "register does not log in")
}

func TestSeed_RunsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, SeedAdminEmail)
	require.NoError(t, f.api.DeleteProject(ctx, "1"))

	// a second client on the same database must not re-seed
	again, err := New(Config{DB: f.db, Credentials: f.creds, Secret: []byte("test-secret"), HashCost: bcrypt.MinCost, Now: func() time.Time { return f.now }})
	require.NoError(t, err)

	all, err := again.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

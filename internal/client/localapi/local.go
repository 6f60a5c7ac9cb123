// Package localapi is a backend that keeps users and projects in the local
// SQLite database instead of calling a server. It implements client.Client
// with the same authorization rules and error values as the HTTP backend, so
// the rest of the client cannot tell the two apart.
package localapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/client/repositories/attachments"
	"github.com/dmitrijs2005/projecthub/internal/client/repositories/projects"
	"github.com/dmitrijs2005/projecthub/internal/client/repositories/users"
	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/dbx"
	"github.com/dmitrijs2005/projecthub/internal/logging"
)

// AttachmentScheme prefixes references to files held by this backend.
const AttachmentScheme = "local://attachments/"

type Config struct {
	DB          *sql.DB
	Credentials client.CredentialStore
	// Secret signs session tokens. Required.
	Secret   []byte
	TokenTTL time.Duration
	// HashCost is the bcrypt cost, bcrypt.DefaultCost when zero.
	HashCost int
	Logger   logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type LocalClient struct {
	db       *sql.DB
	creds    client.CredentialStore
	secret   []byte
	ttl      time.Duration
	hashCost int
	logger   logging.Logger
	now      func() time.Time

	users    users.Repository
	projects projects.Repository
	files    attachments.Repository

	seedMu sync.Mutex
	seeded bool
}

var _ client.Client = (*LocalClient)(nil)

func New(cfg Config) (*LocalClient, error) {
	if cfg.DB == nil {
		return nil, errors.New("localapi: DB is required")
	}
	if cfg.Credentials == nil {
		return nil, errors.New("localapi: Credentials is required")
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("localapi: Secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &LocalClient{
		db:       cfg.DB,
		creds:    cfg.Credentials,
		secret:   cfg.Secret,
		ttl:      cfg.TokenTTL,
		hashCost: cfg.HashCost,
		logger:   cfg.Logger.With("component", "localapi"),
		now:      cfg.Now,
		users:    users.NewSQLiteRepository(cfg.DB),
		projects: projects.NewSQLiteRepository(cfg.DB),
		files:    attachments.NewSQLiteRepository(cfg.DB),
	}, nil
}

// Close does not close the database, which belongs to the caller.
func (c *LocalClient) Close() error {
	return nil
}

func apiError(status int, msg string) error {
	var sentinel error
	switch status {
	case http.StatusUnauthorized:
		sentinel = client.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = client.ErrForbidden
	case http.StatusNotFound:
		sentinel = client.ErrNotFound
	default:
		sentinel = client.ErrBadRequest
	}
	return &client.APIError{StatusCode: status, Message: msg, Err: sentinel}
}

func internalError(err error) error {
	return &client.APIError{StatusCode: http.StatusInternalServerError, Message: err.Error(), Err: client.ErrServer}
}

// authenticate resolves the caller from the stored token. A missing, invalid
// or expired token invalidates the session, like a 401 from a server.
func (c *LocalClient) authenticate(ctx context.Context) (*users.Record, error) {
	if err := c.ensureSeeded(ctx); err != nil {
		return nil, internalError(err)
	}

	reject := func(msg string) error {
		c.creds.Invalidate(ctx)
		return apiError(http.StatusUnauthorized, msg)
	}

	token := c.creds.Token(ctx)
	if token == "" {
		return nil, reject("No token provided")
	}
	userID, err := GetUserIDFromToken(token, c.secret, c.now())
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, reject("Token expired")
		}
		return nil, reject("Invalid token")
	}
	rec, err := c.users.GetByID(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, reject("User no longer exists")
	}
	if err != nil {
		return nil, internalError(err)
	}
	return rec, nil
}

func (c *LocalClient) requireAdmin(ctx context.Context) (*users.Record, error) {
	rec, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	if !rec.IsAdmin() {
		return nil, apiError(http.StatusForbidden, "Admin access required")
	}
	return rec, nil
}

func (c *LocalClient) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	if err := c.ensureSeeded(ctx); err != nil {
		return nil, internalError(err)
	}

	invalid := &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials", Err: client.ErrInvalidCredentials}

	rec, err := c.users.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, internalError(err)
	}
	if bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)) != nil {
		return nil, invalid
	}

	token, err := GenerateToken(rec.ID, c.secret, c.ttl, c.now())
	if err != nil {
		return nil, internalError(err)
	}
	c.logger.Debug(ctx, "login", "user_id", rec.ID)
	return &client.AuthResult{Identity: rec.Identity, Token: token}, nil
}

func (c *LocalClient) Register(ctx context.Context, in models.UserInput) (*models.Identity, error) {
	if err := c.ensureSeeded(ctx); err != nil {
		return nil, internalError(err)
	}
	return c.createUser(ctx, in)
}

func (c *LocalClient) createUser(ctx context.Context, in models.UserInput) (*models.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), c.hashCost)
	if err != nil {
		return nil, apiError(http.StatusBadRequest, err.Error())
	}

	rec := &users.Record{
		Identity: models.Identity{
			ID:    uuid.NewString(),
			Name:  strings.TrimSpace(in.Name),
			Email: strings.ToLower(strings.TrimSpace(in.Email)),
			Role:  models.ParseRole(string(in.Role)),
		},
		PasswordHash: hash,
	}
	if err := c.users.Create(ctx, rec); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, apiError(http.StatusConflict, "User already exists")
		}
		return nil, internalError(err)
	}

	identity := rec.Identity
	return &identity, nil
}

func (c *LocalClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	rec, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	all, err := c.projects.GetAll(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return models.Visible(rec.Identity, all), nil
}

// visibleProject returns 404 both for a missing project and for one the
// caller may not see.
func (c *LocalClient) visibleProject(ctx context.Context, rec *users.Record, id string) (*models.Project, error) {
	p, err := c.projects.GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, apiError(http.StatusNotFound, "Project not found")
	}
	if err != nil {
		return nil, internalError(err)
	}
	if !p.VisibleTo(rec.Identity) {
		return nil, apiError(http.StatusNotFound, "Project not found")
	}
	return p, nil
}

func (c *LocalClient) GetProject(ctx context.Context, id string) (*models.Project, error) {
	rec, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return c.visibleProject(ctx, rec, id)
}

func attachmentRef(id, fileName string) string {
	return AttachmentScheme + id + "/" + fileName
}

// storeFiles saves uploads for projectID and returns their references.
func storeFiles(ctx context.Context, repo attachments.Repository, projectID string, uploads []models.FileUpload) ([]string, error) {
	refs := make([]string, 0, len(uploads))
	for _, u := range uploads {
		f := &attachments.File{
			ID:        uuid.NewString(),
			ProjectID: projectID,
			FileName:  filepath.Base(u.FileName),
			Data:      u.Data,
		}
		if err := repo.Create(ctx, f); err != nil {
			return nil, err
		}
		refs = append(refs, attachmentRef(f.ID, f.FileName))
	}
	return refs, nil
}

func (c *LocalClient) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	if _, err := c.requireAdmin(ctx); err != nil {
		return nil, err
	}

	p := &models.Project{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		Status:        in.Status,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		AssignedUsers: append([]string{}, in.AssignedUsers...),
	}

	err := dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := projects.NewSQLiteRepository(tx).Upsert(ctx, p); err != nil {
			return err
		}
		refs, err := storeFiles(ctx, attachments.NewSQLiteRepository(tx), p.ID, in.Attachments)
		if err != nil {
			return err
		}
		p.Attachments = refs
		return projects.NewSQLiteRepository(tx).Upsert(ctx, p)
	})
	if err != nil {
		return nil, internalError(err)
	}

	c.logger.Info(ctx, "project created", "project_id", p.ID)
	return p, nil
}

// UpdateProject applies only the fields set in patch. Uploaded files replace
// the project's previous attachments; without uploads they are kept.
func (c *LocalClient) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	rec, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	current, err := c.visibleProject(ctx, rec, id)
	if err != nil {
		return nil, err
	}

	updated := current.Apply(patch)
	err = dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if len(patch.Attachments) > 0 {
			files := attachments.NewSQLiteRepository(tx)
			if _, err := files.DeleteByProjectID(ctx, id); err != nil {
				return err
			}
			refs, err := storeFiles(ctx, files, id, patch.Attachments)
			if err != nil {
				return err
			}
			updated.Attachments = refs
		}
		return projects.NewSQLiteRepository(tx).Upsert(ctx, &updated)
	})
	if err != nil {
		return nil, internalError(err)
	}
	return &updated, nil
}

func (c *LocalClient) DeleteProject(ctx context.Context, id string) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := attachments.NewSQLiteRepository(tx).DeleteByProjectID(ctx, id); err != nil {
			return err
		}
		return projects.NewSQLiteRepository(tx).DeleteByID(ctx, id)
	})
	if errors.Is(err, common.ErrorNotFound) {
		return apiError(http.StatusNotFound, "Project not found")
	}
	if err != nil {
		return internalError(err)
	}
	c.logger.Info(ctx, "project deleted", "project_id", id)
	return nil
}

func (c *LocalClient) ListUsers(ctx context.Context) ([]models.Identity, error) {
	if _, err := c.requireAdmin(ctx); err != nil {
		return nil, err
	}
	list, err := c.users.List(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return list, nil
}

func (c *LocalClient) CreateUser(ctx context.Context, in models.UserInput) (*models.Identity, error) {
	if _, err := c.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return c.createUser(ctx, in)
}

// Attachment returns the file behind a reference produced by this backend.
// The caller must be able to see the owning project.
func (c *LocalClient) Attachment(ctx context.Context, ref string) (*attachments.File, error) {
	rec, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	rest, ok := strings.CutPrefix(ref, AttachmentScheme)
	id, _, _ := strings.Cut(rest, "/")
	if !ok || id == "" {
		return nil, apiError(http.StatusBadRequest, fmt.Sprintf("not a local attachment: %q", ref))
	}

	f, err := c.files.GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, apiError(http.StatusNotFound, "Attachment not found")
	}
	if err != nil {
		return nil, internalError(err)
	}
	if _, err := c.visibleProject(ctx, rec, f.ProjectID); err != nil {
		return nil, apiError(http.StatusNotFound, "Attachment not found")
	}
	return f, nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/logging"
)

// IdentitySource reports who is logged in.
type IdentitySource interface {
	Identity() (models.Identity, bool)
}

// ProjectService is the project directory: the cached, visibility-filtered
// list of projects plus the operations that change it.
//
// Mutations reflect the backend's answer in the cache only after the
// backend accepted them; a failed call leaves the cache untouched.
type ProjectService interface {
	Load(ctx context.Context) ([]models.Project, error)
	// Refresh is a passive Load: failures are logged and the last known
	// list is kept.
	Refresh(ctx context.Context)

	Projects() []models.Project
	Filter(f models.ProjectFilter) []models.Project
	Summary() models.Summary
	Loaded() bool

	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	Remove(ctx context.Context, id string) error

	// Reset drops the cache, e.g. on logout. Requests started before a Reset
	// do not write their results into the new cache.
	Reset()
	Generation() uint64
}

type projectService struct {
	client   client.Client
	identity IdentitySource
	logger   logging.Logger

	mu         sync.RWMutex
	projects   []models.Project
	loaded     bool
	generation uint64
}

func NewProjectService(c client.Client, identity IdentitySource, logger logging.Logger) ProjectService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &projectService{client: c, identity: identity, logger: logger.With("component", "projects")}
}

func (s *projectService) whoami() models.Identity {
	identity, _ := s.identity.Identity()
	return identity
}

func cloneAll(projects []models.Project) []models.Project {
	out := make([]models.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}

func (s *projectService) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// mutate runs fn under the write lock unless the cache was reset since gen.
func (s *projectService) mutate(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	fn()
	return true
}

func (s *projectService) indexOf(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *projectService) Load(ctx context.Context) ([]models.Project, error) {
	gen := s.Generation()

	list, err := s.client.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	visible := models.Visible(s.whoami(), list)

	if !s.mutate(gen, func() {
		s.projects = cloneAll(visible)
		s.loaded = true
	}) {
		s.logger.Debug(ctx, "discarding project list loaded before reset")
	}
	s.logger.Debug(ctx, "projects loaded", "count", len(visible))
	return cloneAll(visible), nil
}

func (s *projectService) Refresh(ctx context.Context) {
	if _, err := s.Load(ctx); err != nil {
		s.logger.Warn(ctx, "project refresh failed, keeping cached list", "error", err)
	}
}

func (s *projectService) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.projects)
}

func (s *projectService) Filter(f models.ProjectFilter) []models.Project {
	return models.Filter(s.Projects(), f)
}

func (s *projectService) Summary() models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Summarize(s.projects)
}

func (s *projectService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Get fetches a single project. A project the caller may not see is
// reported as client.ErrNotFound even if the backend returned it.
func (s *projectService) Get(ctx context.Context, id string) (*models.Project, error) {
	gen := s.Generation()

	p, err := s.client.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if !p.VisibleTo(s.whoami()) {
		return nil, fmt.Errorf("get project: %w", client.ErrNotFound)
	}

	s.mutate(gen, func() {
		if i := s.indexOf(id); i >= 0 {
			s.projects[i] = p.Clone()
		}
	})
	return p, nil
}

func (s *projectService) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	gen := s.Generation()

	p, err := s.client.CreateProject(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info(ctx, "project created", "project_id", p.ID)

	// without an id the entry cannot be tracked; reload to pick it up
	if p.ID == "" {
		if s.Generation() == gen {
			s.Refresh(ctx)
		}
		return p, nil
	}

	if p.VisibleTo(s.whoami()) {
		s.mutate(gen, func() {
			// a concurrent Load may already have brought it in
			if i := s.indexOf(p.ID); i >= 0 {
				s.projects[i] = p.Clone()
				return
			}
			s.projects = append(s.projects, p.Clone())
		})
	}
	return p, nil
}

func (s *projectService) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalid("title", "title is required")
		}
		patch.Title = &title
	}
	if patch.IsEmpty() {
		return nil, invalid("patch", "nothing to update")
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	gen := s.Generation()

	echo, err := s.client.UpdateProject(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	result := echo
	found := false
	s.mutate(gen, func() {
		i := s.indexOf(id)
		if i < 0 {
			return
		}
		found = true
		if echo.ID != "" {
			s.projects[i] = echo.Clone()
			return
		}
		patched := s.projects[i].Apply(patch)
		s.projects[i] = patched
		result = &patched
	})
	if !found {
		s.logger.Debug(ctx, "updated project is not cached, reload to see it", "project_id", id)
	}

	out := result.Clone()
	if out.ID == "" {
		out.ID = id
	}
	return &out, nil
}

func (s *projectService) Remove(ctx context.Context, id string) error {
	gen := s.Generation()

	if err := s.client.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.mutate(gen, func() {
		if i := s.indexOf(id); i >= 0 {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
		}
	})
	s.logger.Info(ctx, "project deleted", "project_id", id)
	return nil
}

func (s *projectService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = nil
	s.loaded = false
	s.generation++
}

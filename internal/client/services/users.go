package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/logging"
)

// UserService is the admin-only user directory. Non-admin callers get
// client.ErrForbidden without a request being sent.
type UserService interface {
	List(ctx context.Context) ([]models.Identity, error)
	Create(ctx context.Context, in models.UserInput) (*models.Identity, error)
	Users() []models.Identity
	Reset()
}

type userService struct {
	client   client.Client
	identity IdentitySource
	logger   logging.Logger

	mu    sync.RWMutex
	users []models.Identity
}

func NewUserService(c client.Client, identity IdentitySource, logger logging.Logger) UserService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &userService{client: c, identity: identity, logger: logger.With("component", "users")}
}

func (s *userService) requireAdmin() error {
	identity, ok := s.identity.Identity()
	if !ok {
		return client.ErrUnauthorized
	}
	if !identity.IsAdmin() {
		return client.ErrForbidden
	}
	return nil
}

func (s *userService) List(ctx context.Context) ([]models.Identity, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}

	list, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	s.mu.Lock()
	s.users = append([]models.Identity{}, list...)
	s.mu.Unlock()
	return append([]models.Identity{}, list...), nil
}

func (s *userService) Create(ctx context.Context, in models.UserInput) (*models.Identity, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	in = normalizeUserInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	created, err := s.client.CreateUser(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.mu.Lock()
	s.users = append(s.users, *created)
	s.mu.Unlock()
	s.logger.Info(ctx, "user created", "user_id", created.ID, "role", string(created.Role))
	return created, nil
}

func (s *userService) Users() []models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Identity{}, s.users...)
}

func (s *userService) Reset() {
	s.mu.Lock()
	s.users = nil
	s.mu.Unlock()
}

// Package session keeps the authenticated identity and bearer token of the
// current user, in memory and durably in the local metadata table.
//
// A Store is Authenticated exactly when it holds a non-empty token, and the
// durable copy always mirrors that: identity and token are written and
// removed together.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/projecthub/internal/dbx"
	"github.com/dmitrijs2005/projecthub/internal/logging"
)

// Durable keys. The names match what earlier clients wrote so an existing
// session survives an upgrade.
const (
	KeyIdentity = "pms_auth_user"
	KeyToken    = "token"
)

var ErrNoCredential = errors.New("session: empty token")

type State int

const (
	StateUnknown State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

type Store struct {
	db     *sql.DB
	repo   metadata.Factory
	logger logging.Logger

	mu       sync.RWMutex
	state    State
	identity models.Identity
	token    string

	listeners []func(State)
}

var _ client.CredentialStore = (*Store)(nil)

func NewStore(db *sql.DB, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{db: db, repo: metadata.SQLite, logger: logger.With("component", "session")}
}

// OnChange registers fn to be called after every state transition. fn runs
// outside the store's lock and may call back into the store.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) set(state State, identity models.Identity, token string) {
	s.mu.Lock()
	s.state = state
	s.identity = identity
	s.token = token
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// Hydrate restores a previous session from durable storage without any
// network call. A half-written or undecodable session is wiped.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	repo := s.repo(s.db)
	rawIdentity, err := repo.Get(ctx, KeyIdentity)
	if err != nil {
		s.set(StateAnonymous, models.Identity{}, "")
		return fmt.Errorf("hydrate session: %w", err)
	}
	rawToken, err := repo.Get(ctx, KeyToken)
	if err != nil {
		s.set(StateAnonymous, models.Identity{}, "")
		return fmt.Errorf("hydrate session: %w", err)
	}

	if len(rawIdentity) == 0 && len(rawToken) == 0 {
		s.set(StateAnonymous, models.Identity{}, "")
		return nil
	}

	var identity models.Identity
	if len(rawIdentity) == 0 || len(rawToken) == 0 || json.Unmarshal(rawIdentity, &identity) != nil {
		s.logger.Warn(ctx, "discarding incomplete stored session")
		return s.Clear(ctx)
	}

	s.set(StateAuthenticated, identity, string(rawToken))
	s.logger.Debug(ctx, "session restored", "user_id", identity.ID)
	return nil
}

// Establish records a successful login. Both keys are written in one
// transaction before the in-memory state changes.
func (s *Store) Establish(ctx context.Context, identity models.Identity, token string) error {
	if token == "" {
		return ErrNoCredential
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, KeyIdentity, raw); err != nil {
			return err
		}
		return repo.Set(ctx, KeyToken, []byte(token))
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	s.set(StateAuthenticated, identity, token)
	return nil
}

// Clear forgets the session. The in-memory state is cleared even when the
// durable delete fails. Calling Clear on an anonymous store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	err := s.repo(s.db).Delete(ctx, KeyIdentity, KeyToken)
	s.set(StateAnonymous, models.Identity{}, "")
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Invalidate is called when the backend rejects the token.
func (s *Store) Invalidate(ctx context.Context) {
	s.logger.Info(ctx, "session invalidated by backend")
	if err := s.Clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear session", "error", err)
	}
}

func (s *Store) Token(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the current user and whether there is one.
func (s *Store) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.state == StateAuthenticated
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) IsAdmin() bool {
	identity, ok := s.Identity()
	return ok && identity.IsAdmin()
}

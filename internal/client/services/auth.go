// Package services contains the application services behind the CLI:
// authentication, the project directory and the user directory. They sit
// between the view layer and the backend gateway, validate input before any
// request is sent and keep the in-memory caches the screens render from.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/logging"
)

// Session is the part of the session store the services need.
type Session interface {
	Establish(ctx context.Context, identity models.Identity, token string) error
	Clear(ctx context.Context) error
	Identity() (models.Identity, bool)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the backend and establish the session.
//     A rejected login leaves the session untouched and returns an error
//     matching client.ErrInvalidCredentials.
//   - Logout: forget the session; safe to call when logged out.
//   - Register: create an account. It does not log in.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.Identity, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, in models.UserInput) (*models.Identity, error)
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session Session
	logger  logging.Logger
}

func NewAuthService(c client.Client, session Session, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &authService{client: c, session: session, logger: logger.With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, email, password string) (models.Identity, error) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return models.Identity{}, invalid("email", "email is required")
	case password == "":
		return models.Identity{}, invalid("password", "password is required")
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrInvalidCredentials) {
			a.logger.Info(ctx, "login rejected", "email", email)
		}
		return models.Identity{}, fmt.Errorf("login error: %w", err)
	}

	if err := a.session.Establish(ctx, res.Identity, res.Token); err != nil {
		return models.Identity{}, fmt.Errorf("session saving error: %w", err)
	}
	a.logger.Info(ctx, "logged in", "user_id", res.Identity.ID, "role", string(res.Identity.Role))
	return res.Identity, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if identity, ok := a.session.Identity(); ok {
		a.logger.Info(ctx, "logged out", "user_id", identity.ID)
	}
	return a.session.Clear(ctx)
}

// normalizeUserInput trims the input and lower-cases the role, defaulting
// it to RoleUser.
func normalizeUserInput(in models.UserInput) models.UserInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = models.Role(strings.ToLower(strings.TrimSpace(string(in.Role))))
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	return in
}

func (a *authService) Register(ctx context.Context, in models.UserInput) (*models.Identity, error) {
	in = normalizeUserInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	identity, err := a.client.Register(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	a.logger.Info(ctx, "registered", "user_id", identity.ID)
	return identity, nil
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
)

// promptUser asks for the fields of a new account.
func (a *App) promptUser(ctx context.Context) (models.UserInput, error) {
	var in models.UserInput
	var err error

	if in.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return in, err
	}
	if in.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return in, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return in, err
	}
	in.Password = string(password)
	clear(password)

	role, err := getSimpleText(a.reader, "Enter role: user or admin (empty for user)", a.out)
	if err != nil {
		return in, err
	}
	in.Role = models.Role(role)
	return in, nil
}

// Register creates an account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	in, err := a.promptUser(ctx)
	if err != nil {
		return err
	}
	if _, err := a.authService.Register(ctx, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registration successful. Please log in.")
	return nil
}

// Login prompts for credentials, establishes the session and shows the
// dashboard summary.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	identity, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	// a previous user's caches must not leak into this session
	a.projectService.Reset()
	a.userService.Reset()

	fmt.Fprintf(a.out, "Logged in as %s (%s).\n", identity.Name, identity.Role)
	return a.Summary(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

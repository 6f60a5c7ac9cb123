package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
)

func (a *App) Users(ctx context.Context) error {
	list, err := a.userService.List(ctx)
	if err != nil {
		return err
	}
	renderUsers(a.out, list)
	return nil
}

// AddUser lets an admin create an account for someone else.
func (a *App) AddUser(ctx context.Context) error {
	if !a.isAdmin() {
		return client.ErrForbidden
	}
	in, err := a.promptUser(ctx)
	if err != nil {
		return err
	}
	created, err := a.userService.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %s created with id %s.\n", created.Email, created.ID)
	return nil
}

package localapi

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/client/repositories/projects"
	"github.com/dmitrijs2005/projecthub/internal/client/repositories/users"
	"github.com/dmitrijs2005/projecthub/internal/dbx"
)

// Fixture accounts created in an empty database.
const (
	SeedAdminEmail = "admin@example.com"
	SeedUserEmail  = "user@example.com"
	SeedPassword   = "password"
)

type seedUser struct {
	identity models.Identity
	password string
}

var seedUsers = []seedUser{
	{models.Identity{ID: "1", Name: "Admin User", Email: SeedAdminEmail, Role: models.RoleAdmin}, SeedPassword},
	{models.Identity{ID: "2", Name: "John Doe", Email: SeedUserEmail, Role: models.RoleUser}, SeedPassword},
}

var seedProjects = []models.Project{
	{
		ID:            "1",
		Title:         "Website Redesign",
		Description:   "Redesign company website",
		Status:        models.StatusActive,
		EndDate:       time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		AssignedUsers: []string{"2"},
		Attachments:   []string{},
	},
}

// ensureSeeded fills an empty database with the fixture data once per
// client. A failed attempt is retried on the next call.
func (c *LocalClient) ensureSeeded(ctx context.Context) error {
	c.seedMu.Lock()
	defer c.seedMu.Unlock()
	if c.seeded {
		return nil
	}

	err := dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := users.NewSQLiteRepository(tx)
		n, err := userRepo.Count(ctx)
		if err != nil || n > 0 {
			return err
		}

		for _, su := range seedUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(su.password), c.hashCost)
			if err != nil {
				return err
			}
			if err := userRepo.Create(ctx, &users.Record{Identity: su.identity, PasswordHash: hash}); err != nil {
				return err
			}
		}

		projectRepo := projects.NewSQLiteRepository(tx)
		for i := range seedProjects {
			p := seedProjects[i].Clone()
			if err := projectRepo.Upsert(ctx, &p); err != nil {
				return err
			}
		}
		c.logger.Info(ctx, "seeded local database", "users", len(seedUsers), "projects", len(seedProjects))
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed local database: %w", err)
	}

	c.seeded = true
	return nil
}

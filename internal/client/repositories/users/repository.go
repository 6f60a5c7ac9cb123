package users

import (
	"context"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
)

// Record is a stored account.
type Record struct {
	models.Identity
	PasswordHash []byte
}

type Repository interface {
	// Create returns common.ErrorAlreadyExists when the email is taken.
	Create(ctx context.Context, rec *Record) error
	GetByEmail(ctx context.Context, email string) (*Record, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]models.Identity, error)
	Count(ctx context.Context) (int, error)
}

package metadata

import (
	"context"

	"github.com/dmitrijs2005/projecthub/internal/dbx"
)

// Repository is a durable key/value store. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Factory binds a Repository to a database handle or an open transaction.
type Factory func(db dbx.DBTX) Repository

// SQLite is the Factory for SQLiteRepository.
func SQLite(db dbx.DBTX) Repository {
	return NewSQLiteRepository(db)
}

var _ Repository = (*SQLiteRepository)(nil)

package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// normalizeEmail makes lookups case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *Record) error {
	query := `INSERT INTO local_users (id, name, email, password_hash, role)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(email) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Name, normalizeEmail(rec.Email), rec.PasswordHash, string(rec.Role))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, where string, arg any) (*Record, error) {
	query := `SELECT id, name, email, password_hash, role FROM local_users WHERE ` + where

	var (
		rec  Record
		role string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.Role = models.ParseRole(role)
	return &rec, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*Record, error) {
	return r.getOne(ctx, `email = ?`, normalizeEmail(email))
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Identity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, role FROM local_users ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Identity{}
	for rows.Next() {
		var (
			u    models.Identity
			role string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role); err != nil {
			return nil, err
		}
		u.Role = models.ParseRole(role)
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM local_users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Package attachments stores attachment payloads for the local backend in the
// "local_attachments" table.
package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, f *File) error {

	query := `INSERT INTO local_attachments (id, project_id, file_name, data) VALUES (?, ?, ?, ?)`
	data := f.Data
	if data == nil {
		data = []byte{}
	}
	_, err := r.db.ExecContext(ctx, query, f.ID, f.ProjectID, f.FileName, data)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*File, error) {

	query := `SELECT id, project_id, file_name, data FROM local_attachments WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	f := &File{}
	err := row.Scan(&f.ID, &f.ProjectID, &f.FileName, &f.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}

	return f, nil
}

func (r *SQLiteRepository) DeleteByProjectID(ctx context.Context, projectID string) (int64, error) {

	result, err := r.db.ExecContext(ctx, `DELETE FROM local_attachments WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attachments: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(models.DateLayout, s)
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Project) error {
	assigned, err := encodeList(p.AssignedUsers)
	if err != nil {
		return fmt.Errorf("failed to encode assignees: %w", err)
	}
	attachments, err := encodeList(p.Attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	query := `INSERT INTO local_projects (id, title, description, status, start_date, end_date, assigned_users, attachments)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				description = excluded.description,
				status = excluded.status,
				start_date = excluded.start_date,
				end_date = excluded.end_date,
				assigned_users = excluded.assigned_users,
				attachments = excluded.attachments,
				updated_at = CURRENT_TIMESTAMP
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.Status.String(),
		formatDate(p.StartDate), formatDate(p.EndDate), assigned, attachments)
	if err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}
	return nil
}

const selectColumns = `id, title, description, status, start_date, end_date, assigned_users, attachments`

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	var (
		p                        models.Project
		status, start, end       string
		assignedJSON, attachJSON string
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &status, &start, &end, &assignedJSON, &attachJSON); err != nil {
		return nil, err
	}

	var err error
	p.Status = models.ParseStatus(status)
	if p.StartDate, err = parseDate(start); err != nil {
		return nil, fmt.Errorf("project %s: bad start date: %w", p.ID, err)
	}
	if p.EndDate, err = parseDate(end); err != nil {
		return nil, fmt.Errorf("project %s: bad end date: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(assignedJSON), &p.AssignedUsers); err != nil {
		return nil, fmt.Errorf("project %s: bad assignees: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(attachJSON), &p.Attachments); err != nil {
		return nil, fmt.Errorf("project %s: bad attachments: %w", p.ID, err)
	}
	return &p, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Project, error) {
	query := `SELECT ` + selectColumns + ` FROM local_projects ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	result := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + selectColumns + ` FROM local_projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM local_projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

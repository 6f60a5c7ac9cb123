package projects

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, client.RunMigrations(context.Background(), db))
	return db
}

func sample(id string) *models.Project {
	return &models.Project{
		ID:            id,
		Title:         "Website Redesign",
		Description:   "Redesign company website",
		Status:        models.StatusActive,
		StartDate:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		AssignedUsers: []string{"2"},
		Attachments:   []string{},
	}
}

func TestUpsert_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := sample("1")
	require.NoError(t, r.Upsert(ctx, p))

	got, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// update by the same id
	p.Status = models.StatusCompleted
	p.Attachments = []string{"local://attachments/a1/spec.txt"}
	require.NoError(t, r.Upsert(ctx, p))

	got, err = r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, []string{"local://attachments/a1/spec.txt"}, got.Attachments)

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM local_projects WHERE id = '1'`).Scan(&status))
	assert.Equal(t, "completed", status)
}

func TestUpsert_ZeroDatesAndNilLists(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &models.Project{ID: "z", Title: "Bare"}))

	got, err := r.GetByID(ctx, "z")
	require.NoError(t, err)
	assert.True(t, got.StartDate.IsZero())
	assert.True(t, got.EndDate.IsZero())
	assert.Empty(t, got.AssignedUsers)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestGetAll_KeepsInsertOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, r.Upsert(ctx, sample(id)))
	}

	all, err = r.GetAll(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteByID_SuccessAndNotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sample("x")))
	require.NoError(t, r.DeleteByID(ctx, "x"))

	err := r.DeleteByID(ctx, "x")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_CorruptRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := db.Exec(`INSERT INTO local_projects (id, title, assigned_users) VALUES ('bad', 't', 'not json')`)
	require.NoError(t, err)

	_, err = r.GetByID(context.Background(), "bad")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrorNotFound)
}

package attachments

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
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
	_, err = db.Exec(`INSERT INTO local_projects (id, title) VALUES ('p1', 'one'), ('p2', 'two')`)
	require.NoError(t, err)
	return db
}

func TestCreateAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	f := &File{ID: "a1", ProjectID: "p1", FileName: "spec.txt", Data: []byte("hello")}
	require.NoError(t, r.Create(ctx, f))

	got, err := r.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, f, got)

	_, err = r.GetByID(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate_DuplicateID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &File{ID: "a1", ProjectID: "p1", FileName: "x"}))
	err := r.Create(ctx, &File{ID: "a1", ProjectID: "p1", FileName: "y"})
	require.ErrorContains(t, err, "failed to insert attachment")
}

func TestDeleteByProjectID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &File{ID: "a1", ProjectID: "p1", FileName: "x"}))
	require.NoError(t, r.Create(ctx, &File{ID: "a2", ProjectID: "p1", FileName: "y"}))
	require.NoError(t, r.Create(ctx, &File{ID: "b1", ProjectID: "p2", FileName: "z"}))

	n, err := r.DeleteByProjectID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = r.DeleteByProjectID(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = r.GetByID(ctx, "b1")
	require.NoError(t, err)
}

package highlights

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE highlights (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  book_id TEXT NOT NULL,
  text TEXT NOT NULL,
  book_title TEXT NOT NULL DEFAULT '',
  added_at INTEGER NOT NULL,
  deleted_at INTEGER,
  location TEXT NOT NULL DEFAULT '',
  UNIQUE (book_id, text)
);
CREATE INDEX idx_highlights_book_id ON highlights (book_id);
`)
	require.NoError(t, err)

	return db
}

func ptr(v int64) *int64 { return &v }

func TestInsert_AssignsHandle(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	e := &models.HighlightEntry{BookID: "b1", Text: "hello world", BookTitle: "T", AddedAt: 100}
	require.NoError(t, r.Insert(ctx, e))
	assert.NotZero(t, e.RowID)

	e2 := &models.HighlightEntry{BookID: "b1", Text: "second", AddedAt: 110}
	require.NoError(t, r.Insert(ctx, e2))
	assert.Greater(t, e2.RowID, e.RowID)
}

func TestUpdateByID_PreservesHandle(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	e := &models.HighlightEntry{BookID: "b1", Text: "hello world", AddedAt: 100}
	require.NoError(t, r.Insert(ctx, e))
	handle := e.RowID

	newer := &models.HighlightEntry{BookID: "b1", Text: "hello world", BookTitle: "T2", AddedAt: 500, Location: "p3"}
	require.NoError(t, r.UpdateByID(ctx, handle, newer))

	got, err := r.GetByKey(ctx, "b1", "hello world")
	require.NoError(t, err)
	assert.Equal(t, handle, got.RowID, "storage handle must survive the update")
	assert.Equal(t, int64(500), got.AddedAt)
	assert.Equal(t, "T2", got.BookTitle)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM highlights`).Scan(&n))
	assert.Equal(t, 1, n, "update must not create a second row")
}

func TestUpdateByID_MissingRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	err := r.UpdateByID(context.Background(), 99, &models.HighlightEntry{BookID: "b", Text: "t", AddedAt: 1})
	require.Error(t, err)
}

func TestGetByBook_UsesActiveFilter(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &models.HighlightEntry{BookID: "b1", Text: "one", AddedAt: 10}))
	require.NoError(t, r.Insert(ctx, &models.HighlightEntry{BookID: "b1", Text: "two", AddedAt: 20, DeletedAt: ptr(30)}))
	require.NoError(t, r.Insert(ctx, &models.HighlightEntry{BookID: "b2", Text: "one", AddedAt: 10}))

	got, err := r.GetByBook(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0].Text)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := r.GetAllActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestSoftDelete_ByIdentityKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	e := &models.HighlightEntry{BookID: "b1", Text: "hello", AddedAt: 100}
	require.NoError(t, r.Insert(ctx, e))

	require.NoError(t, r.SoftDelete(ctx, "b1", "hello", 200))

	got, err := r.GetByKey(ctx, "b1", "hello")
	require.NoError(t, err)
	assert.Equal(t, e.RowID, got.RowID)
	assert.False(t, got.IsActive())

	// second delete finds no active row
	require.Error(t, r.SoftDelete(ctx, "b1", "hello", 300))
}

func TestGetByKey_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByKey(context.Background(), "b1", "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

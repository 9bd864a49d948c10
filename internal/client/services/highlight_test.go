package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/highlights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightAdd_ThenDelete(t *testing.T) {
	repo := highlights.NewSQLiteRepository(setupDB(t))
	s := NewHighlightService(repo)
	ctx := context.Background()

	e, err := s.Add(ctx, "b1", "a memorable passage", "Title", "p3")
	require.NoError(t, err)
	assert.NotZero(t, e.RowID)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, s.Delete(ctx, "b1", "a memorable passage"))

	active, err = s.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestHighlightAdd_RevivalKeepsHandle(t *testing.T) {
	repo := highlights.NewSQLiteRepository(setupDB(t))
	s := NewHighlightService(repo)
	ctx := context.Background()

	first, err := s.Add(ctx, "b1", "passage", "Title", "p3")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "b1", "passage"))

	revived, err := s.Add(ctx, "b1", "passage", "", "")
	require.NoError(t, err)

	assert.Equal(t, first.RowID, revived.RowID)
	assert.Nil(t, revived.DeletedAt)
	assert.Equal(t, "Title", revived.BookTitle, "blank fields do not erase stored metadata")
	assert.Equal(t, "p3", revived.Location)
	assert.Greater(t, revived.AddedAt, int64(0))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "revival must not create a second row")
}

func TestHighlightSameTextDifferentBooks(t *testing.T) {
	repo := highlights.NewSQLiteRepository(setupDB(t))
	s := NewHighlightService(repo)
	ctx := context.Background()

	_, err := s.Add(ctx, "b1", "same text", "", "")
	require.NoError(t, err)
	_, err = s.Add(ctx, "b2", "same text", "", "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "b1", "same text"))

	byBook, err := s.ByBook(ctx, "b2")
	require.NoError(t, err)
	assert.Len(t, byBook, 1, "deletion in one book must not touch the other")
}

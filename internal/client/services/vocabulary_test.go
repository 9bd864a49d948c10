package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyAdd_NewWord(t *testing.T) {
	repo := vocabulary.NewSQLiteRepository(setupDB(t))
	s := NewVocabularyService(repo)
	ctx := context.Background()

	e, err := s.Add(ctx, "  Serendipity ", "везение", "b1")
	require.NoError(t, err)

	assert.Equal(t, "serendipity", e.Word)
	assert.Equal(t, int64(1), e.Count)
	assert.Equal(t, defaultEaseFactor, e.EaseFactor)
	assert.True(t, e.IsActive())
}

func TestVocabularyAdd_RepeatLookupBumpsCount(t *testing.T) {
	repo := vocabulary.NewSQLiteRepository(setupDB(t))
	s := NewVocabularyService(repo)
	ctx := context.Background()

	_, err := s.Add(ctx, "word", "t1", "b1")
	require.NoError(t, err)
	e, err := s.Add(ctx, "word", "", "")
	require.NoError(t, err)

	assert.Equal(t, int64(2), e.Count)
	assert.Equal(t, "t1", e.Translation, "empty translation must not erase the stored one")
	assert.Equal(t, "b1", e.Book)
}

func TestVocabularyAdd_RevivesDeletedWord(t *testing.T) {
	repo := vocabulary.NewSQLiteRepository(setupDB(t))
	s := NewVocabularyService(repo)
	ctx := context.Background()

	_, err := s.Add(ctx, "word", "t", "b1")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "word"))

	active, err := s.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	e, err := s.Add(ctx, "word", "", "")
	require.NoError(t, err)
	assert.Nil(t, e.DeletedAt)
	assert.Equal(t, int64(2), e.Count, "revival keeps the prior lookup count")

	active, err = s.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestVocabularyReview_GoodGradeGrowsInterval(t *testing.T) {
	repo := vocabulary.NewSQLiteRepository(setupDB(t))
	s := NewVocabularyService(repo)
	ctx := context.Background()

	_, err := s.Add(ctx, "word", "t", "")
	require.NoError(t, err)

	require.NoError(t, s.Review(ctx, "word", 5))
	e, err := repo.GetByWord(ctx, "word")
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.Interval)
	assert.Greater(t, e.NextReview, int64(0))

	require.NoError(t, s.Review(ctx, "word", 5))
	e, err = repo.GetByWord(ctx, "word")
	require.NoError(t, err)
	assert.Equal(t, int64(6), e.Interval)
}

func TestVocabularyReview_FailedGradeResets(t *testing.T) {
	repo := vocabulary.NewSQLiteRepository(setupDB(t))
	s := NewVocabularyService(repo)
	ctx := context.Background()

	_, err := s.Add(ctx, "word", "t", "")
	require.NoError(t, err)
	require.NoError(t, s.Review(ctx, "word", 5))
	require.NoError(t, s.Review(ctx, "word", 5))

	require.NoError(t, s.Review(ctx, "word", 1))
	e, err := repo.GetByWord(ctx, "word")
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.Interval)
	assert.GreaterOrEqual(t, e.EaseFactor, minEaseFactor)
}

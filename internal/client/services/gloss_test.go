package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlossTranslator(t *testing.T) {
	repo := vocabulary.NewSQLiteRepository(setupDB(t))
	vs := NewVocabularyService(repo)
	ctx := context.Background()

	_, err := vs.Add(ctx, "katze", "cat", "")
	require.NoError(t, err)
	_, err = vs.Add(ctx, "hund", "dog", "")
	require.NoError(t, err)

	g := NewGlossTranslator(repo)
	out, err := g.Translate(ctx, []string{
		"Die Katze und der Hund.",
		"Nothing known here.",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Contains(t, out[0], "katze=cat")
	assert.Contains(t, out[0], "hund=dog")
	assert.Empty(t, out[1])
}

func TestGlossTranslator_SkipsDeletedWords(t *testing.T) {
	repo := vocabulary.NewSQLiteRepository(setupDB(t))
	vs := NewVocabularyService(repo)
	ctx := context.Background()

	_, err := vs.Add(ctx, "katze", "cat", "")
	require.NoError(t, err)
	require.NoError(t, vs.Delete(ctx, "katze"))

	g := NewGlossTranslator(repo)
	out, err := g.Translate(ctx, []string{"Die Katze."})
	require.NoError(t, err)
	assert.Empty(t, out[0])
}

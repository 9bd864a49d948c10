package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/vocabulary"
	"github.com/dmitrijs2005/readkeeper/internal/common"
)

// GlossTranslator is an offline Translator that annotates a paragraph with
// translations of the words already present in the vocabulary. It stands in
// where no external MT engine is configured.
type GlossTranslator struct {
	vocab vocabulary.Repository
}

func NewGlossTranslator(vocab vocabulary.Repository) *GlossTranslator {
	return &GlossTranslator{vocab: vocab}
}

func (g *GlossTranslator) Translate(ctx context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, text := range texts {
		glosses := make([]string, 0, 4)
		seen := map[string]bool{}

		for _, raw := range strings.Fields(text) {
			word := models.NormalizeWord(strings.Trim(raw, ".,;:!?\"'()"))
			if word == "" || seen[word] {
				continue
			}
			seen[word] = true

			e, err := g.vocab.GetByWord(ctx, word)
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if e.Translation != "" && e.IsActive() {
				glosses = append(glosses, e.Word+"="+e.Translation)
			}
		}

		out[i] = strings.Join(glosses, "; ")
	}
	return out, nil
}

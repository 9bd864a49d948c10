package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/vocabulary"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/timex"
)

const (
	defaultEaseFactor = 2.5
	minEaseFactor     = 1.3
	dayMillis         = int64(24 * 60 * 60 * 1000)
)

type VocabularyService struct {
	repo vocabulary.Repository
}

func NewVocabularyService(repo vocabulary.Repository) *VocabularyService {
	return &VocabularyService{repo: repo}
}

// Add records a word lookup. Creation, repeat lookups and revival of a
// soft-deleted word all flow through this one upsert path: an existing record
// gets its count bumped, a fresh addedAt and a cleared tombstone, which is
// exactly what makes re-adding win over an earlier deletion in the merge.
func (s *VocabularyService) Add(ctx context.Context, word, translation, book string) (*models.VocabularyEntry, error) {
	e, err := s.repo.GetByWord(ctx, word)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		e = &models.VocabularyEntry{
			Word:       models.NormalizeWord(word),
			Book:       book,
			Count:      1,
			EaseFactor: defaultEaseFactor,
		}
	case err != nil:
		return nil, fmt.Errorf("error retrieving entry: %w", err)
	default:
		e.Count++
		e.DeletedAt = nil
		if book != "" {
			e.Book = book
		}
	}

	if translation != "" {
		e.Translation = translation
	}
	e.AddedAt = timex.NowMillis()

	if err := s.repo.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return e, nil
}

// Delete soft-deletes a word. The tombstone stays in storage so the deletion
// replicates to other devices.
func (s *VocabularyService) Delete(ctx context.Context, word string) error {
	if err := s.repo.SoftDelete(ctx, word, timex.NowMillis()); err != nil {
		return fmt.Errorf("error deleting entry: %w", err)
	}
	return nil
}

// Active lists the entries visible to the user.
func (s *VocabularyService) Active(ctx context.Context) ([]models.VocabularyEntry, error) {
	result, err := s.repo.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	return result, nil
}

// All lists every entry including tombstones. Export/sync only.
func (s *VocabularyService) All(ctx context.Context) ([]models.VocabularyEntry, error) {
	result, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	return result, nil
}

// Review applies a minimal SM-2 style update after a recall attempt with
// grade 0..5. The resulting fields only need to be monotonic enough for the
// merge's element-wise max; real scheduling lives outside this module.
func (s *VocabularyService) Review(ctx context.Context, word string, grade int) error {
	e, err := s.repo.GetByWord(ctx, word)
	if err != nil {
		return fmt.Errorf("error retrieving entry: %w", err)
	}

	if grade >= 3 {
		switch e.Interval {
		case 0:
			e.Interval = 1
		case 1:
			e.Interval = 6
		default:
			e.Interval = int64(float64(e.Interval) * e.EaseFactor)
		}
		e.EaseFactor += 0.1 - float64(5-grade)*0.08
	} else {
		e.Interval = 1
		e.EaseFactor -= 0.2
	}
	if e.EaseFactor < minEaseFactor {
		e.EaseFactor = minEaseFactor
	}
	e.NextReview = timex.NowMillis() + e.Interval*dayMillis

	if err := s.repo.Save(ctx, e); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

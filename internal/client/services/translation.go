package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/readkeeper/internal/client/locks"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/translations"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/logging"
	"github.com/dmitrijs2005/readkeeper/internal/timex"
)

// translateBatchSize is the number of paragraphs sent to the translator per
// call. The cancel flag is checked between batches, never mid-call.
const translateBatchSize = 8

// Translator produces translations for a batch of paragraphs. The dictionary
// or MT engine behind it is out of this module's scope.
type Translator interface {
	Translate(ctx context.Context, texts []string) ([]string, error)
}

// CancelFlag is a cooperative cancellation switch for a running batch task.
// It does not abort an in-flight network call.
type CancelFlag struct {
	flag atomic.Bool
}

func (c *CancelFlag) Cancel()         { c.flag.Store(true) }
func (c *CancelFlag) Cancelled() bool { return c.flag.Load() }

type TranslationService struct {
	repo       translations.Repository
	translator Translator
	locker     locks.Locker
	log        logging.Logger
}

func NewTranslationService(repo translations.Repository, translator Translator, locker locks.Locker, log logging.Logger) *TranslationService {
	if locker == nil {
		locker = locks.Noop{}
	}
	return &TranslationService{repo: repo, translator: translator, locker: locker, log: log}
}

// Lookup returns the cached translation for a paragraph, keyed by its
// content hash, or common.ErrorNotFound.
func (s *TranslationService) Lookup(ctx context.Context, bookID, original string) (*models.TranslationEntry, error) {
	return s.repo.Get(ctx, bookID, models.HashText(original))
}

// Save caches one paragraph translation.
func (s *TranslationService) Save(ctx context.Context, bookID, original, translated string) error {
	e := &models.TranslationEntry{
		BookID:      bookID,
		Hash:        models.HashText(original),
		Original:    original,
		Translation: translated,
		SavedAt:     timex.NowMillis(),
	}
	if err := s.repo.Save(ctx, e); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

// TranslateBook runs the expensive batch translation for one book: walks the
// paragraphs, skips hashes already cached, and stores results batch by batch.
//
// The per-book advisory lock keeps a second local context from starting the
// same batch; when the lock is taken the task is skipped with
// common.ErrorTranslationInProgress. Between batches the cooperative cancel
// flag and the context are checked.
func (s *TranslationService) TranslateBook(ctx context.Context, bookID string, paragraphs []string, cancel *CancelFlag) error {
	release, ok := s.locker.TryAcquire("translate:" + bookID)
	if !ok {
		s.log.Info(ctx, "translation already running elsewhere, skipping", "book_id", bookID)
		return common.ErrorTranslationInProgress
	}
	defer release()

	pending := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		_, err := s.repo.Get(ctx, bookID, models.HashText(p))
		if errors.Is(err, common.ErrorNotFound) {
			pending = append(pending, p)
			continue
		}
		if err != nil {
			return fmt.Errorf("error reading translation cache: %w", err)
		}
	}

	for start := 0; start < len(pending); start += translateBatchSize {
		if cancel != nil && cancel.Cancelled() {
			s.log.Info(ctx, "translation cancelled", "book_id", bookID, "done", start, "total", len(pending))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + translateBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		translated, err := s.translator.Translate(ctx, batch)
		if err != nil {
			return fmt.Errorf("translation batch failed: %w", err)
		}
		if len(translated) != len(batch) {
			return fmt.Errorf("translator returned %d results for %d texts", len(translated), len(batch))
		}

		for i, p := range batch {
			if err := s.Save(ctx, bookID, p, translated[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

package translations

import (
	"context"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Repository describes storage operations for cached paragraph translations.
// The store is additive: entries are upserted by (book id, hash) and never
// deleted in normal operation.
type Repository interface {
	// Save upserts an entry by (book id, hash).
	Save(ctx context.Context, e *models.TranslationEntry) error

	// Get returns one entry or common.ErrorNotFound.
	Get(ctx context.Context, bookID, hash string) (*models.TranslationEntry, error)

	// GetByBook returns every cached translation for a book.
	GetByBook(ctx context.Context, bookID string) ([]models.TranslationEntry, error)
}

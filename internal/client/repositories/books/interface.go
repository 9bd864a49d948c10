package books

import (
	"context"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Repository describes storage operations for Book records. Books are never
// hard-deleted through the sync path, so there is no delete operation here.
type Repository interface {
	// Save upserts a book by id, writing every synchronized field.
	Save(ctx context.Context, b *models.Book) error

	// UpdateMetadata overwrites title, author and paragraph count only,
	// leaving reading progress fields untouched. Used by the apply step when
	// timestamps tie exactly.
	UpdateMetadata(ctx context.Context, b *models.Book) error

	// GetByID returns a book or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Book, error)

	// GetAll returns every book.
	GetAll(ctx context.Context) ([]models.Book, error)
}

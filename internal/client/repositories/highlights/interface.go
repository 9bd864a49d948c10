package highlights

import (
	"context"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Repository describes storage operations for highlights. The numeric row id
// is a storage-layer handle only: it must survive updates to the same logical
// record (identified by book id + exact text) and is never synchronized.
type Repository interface {
	// Insert creates a new row and fills e.RowID with the assigned handle.
	Insert(ctx context.Context, e *models.HighlightEntry) error

	// UpdateByID rewrites an existing row in place, keeping its handle.
	UpdateByID(ctx context.Context, id int64, e *models.HighlightEntry) error

	// GetByKey returns the record (active or not) matching the identity key,
	// or common.ErrorNotFound.
	GetByKey(ctx context.Context, bookID, text string) (*models.HighlightEntry, error)

	// GetAll returns every highlight including tombstones. Export/sync only.
	GetAll(ctx context.Context) ([]models.HighlightEntry, error)

	// GetAllActive returns highlights passing the liveness rule.
	GetAllActive(ctx context.Context) ([]models.HighlightEntry, error)

	// GetByBook returns active highlights for one book via the secondary
	// index.
	GetByBook(ctx context.Context, bookID string) ([]models.HighlightEntry, error)

	// SoftDelete stamps the tombstone. The row (and its handle) stays.
	SoftDelete(ctx context.Context, bookID, text string, deletedAt int64) error
}

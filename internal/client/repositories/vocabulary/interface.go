package vocabulary

import (
	"context"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Repository describes storage operations for vocabulary entries. Deletion is
// always a soft delete; rows stay in place as tombstones so the deletion
// replicates through sync.
type Repository interface {
	// Save upserts an entry by normalized word. Creation and revival go
	// through this single path.
	Save(ctx context.Context, e *models.VocabularyEntry) error

	// GetByWord returns an entry (active or not) or common.ErrorNotFound.
	GetByWord(ctx context.Context, word string) (*models.VocabularyEntry, error)

	// GetAll returns every entry including tombstones. Export/sync only.
	GetAll(ctx context.Context) ([]models.VocabularyEntry, error)

	// GetAllActive returns entries passing the liveness rule. All display
	// and business logic goes through this accessor.
	GetAllActive(ctx context.Context) ([]models.VocabularyEntry, error)

	// SoftDelete stamps the tombstone. The row is not removed.
	SoftDelete(ctx context.Context, word string, deletedAt int64) error
}

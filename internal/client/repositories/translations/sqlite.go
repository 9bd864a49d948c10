package translations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, e *models.TranslationEntry) error {
	query := `INSERT INTO translations (book_id, hash, original, translation, saved_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(book_id, hash) DO UPDATE SET original = excluded.original,
				translation = excluded.translation,
				saved_at = excluded.saved_at
	`
	_, err := r.db.ExecContext(ctx, query, e.BookID, e.Hash, e.Original, e.Translation, e.SavedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert translation: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, bookID, hash string) (*models.TranslationEntry, error) {
	query := `SELECT book_id, hash, original, translation, saved_at FROM translations
			WHERE book_id = ? AND hash = ?`
	row := r.db.QueryRowContext(ctx, query, bookID, hash)

	e := &models.TranslationEntry{}
	err := row.Scan(&e.BookID, &e.Hash, &e.Original, &e.Translation, &e.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetByBook(ctx context.Context, bookID string) ([]models.TranslationEntry, error) {
	query := `SELECT book_id, hash, original, translation, saved_at FROM translations
			WHERE book_id = ? ORDER BY hash`
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to select translations: %w", err)
	}
	defer rows.Close()

	var result []models.TranslationEntry
	for rows.Next() {
		var e models.TranslationEntry
		if err := rows.Scan(&e.BookID, &e.Hash, &e.Original, &e.Translation, &e.SavedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

package vocabulary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/dbx"
)

// activeCond mirrors models.VocabularyEntry.IsActive in SQL.
const activeCond = `(deleted_at IS NULL OR added_at > deleted_at)`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save upserts an entry by normalized word. On conflict all columns are
// replaced, including deleted_at, so a revival (deleted_at = nil) clears the
// tombstone through the same statement that creates new entries.
func (r *SQLiteRepository) Save(ctx context.Context, e *models.VocabularyEntry) error {
	query := `INSERT INTO vocabulary (word, translation, added_at, book, count, next_review, interval, ease_factor, deleted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(word) DO UPDATE SET translation = excluded.translation,
				added_at = excluded.added_at,
				book = excluded.book,
				count = excluded.count,
				next_review = excluded.next_review,
				interval = excluded.interval,
				ease_factor = excluded.ease_factor,
				deleted_at = excluded.deleted_at
	`
	_, err := r.db.ExecContext(ctx, query,
		models.NormalizeWord(e.Word), e.Translation, e.AddedAt, e.Book, e.Count,
		e.NextReview, e.Interval, e.EaseFactor, e.DeletedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert vocabulary entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByWord(ctx context.Context, word string) (*models.VocabularyEntry, error) {
	query := `SELECT word, translation, added_at, book, count, next_review, interval, ease_factor, deleted_at
			FROM vocabulary WHERE word = ?`
	row := r.db.QueryRowContext(ctx, query, models.NormalizeWord(word))

	e := &models.VocabularyEntry{}
	err := row.Scan(&e.Word, &e.Translation, &e.AddedAt, &e.Book, &e.Count, &e.NextReview, &e.Interval, &e.EaseFactor, &e.DeletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.VocabularyEntry, error) {
	return r.selectAll(ctx, ``)
}

func (r *SQLiteRepository) GetAllActive(ctx context.Context) ([]models.VocabularyEntry, error) {
	return r.selectAll(ctx, `WHERE `+activeCond)
}

func (r *SQLiteRepository) selectAll(ctx context.Context, cond string) ([]models.VocabularyEntry, error) {
	query := `SELECT word, translation, added_at, book, count, next_review, interval, ease_factor, deleted_at
			FROM vocabulary ` + cond + ` ORDER BY word`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select vocabulary: %w", err)
	}
	defer rows.Close()

	var result []models.VocabularyEntry
	for rows.Next() {
		var e models.VocabularyEntry
		if err := rows.Scan(&e.Word, &e.Translation, &e.AddedAt, &e.Book, &e.Count, &e.NextReview, &e.Interval, &e.EaseFactor, &e.DeletedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SoftDelete stamps the tombstone on an existing row. It expects exactly one
// row to be affected.
func (r *SQLiteRepository) SoftDelete(ctx context.Context, word string, deletedAt int64) error {
	query := `UPDATE vocabulary SET deleted_at = ? WHERE word = ? AND ` + activeCond
	res, err := r.db.ExecContext(ctx, query, deletedAt, models.NormalizeWord(word))
	if err != nil {
		return fmt.Errorf("failed to delete vocabulary entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

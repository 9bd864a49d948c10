package highlights

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/dbx"
)

const activeCond = `(deleted_at IS NULL OR added_at > deleted_at)`

const selectCols = `id, book_id, text, book_title, added_at, deleted_at, location`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.HighlightEntry) error {
	query := `INSERT INTO highlights (book_id, text, book_title, added_at, deleted_at, location)
			VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, e.BookID, e.Text, e.BookTitle, e.AddedAt, e.DeletedAt, e.Location)
	if err != nil {
		return fmt.Errorf("failed to insert highlight: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert id: %w", err)
	}
	e.RowID = id
	return nil
}

func (r *SQLiteRepository) UpdateByID(ctx context.Context, id int64, e *models.HighlightEntry) error {
	query := `UPDATE highlights SET book_id = ?, text = ?, book_title = ?, added_at = ?, deleted_at = ?, location = ?
			WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, e.BookID, e.Text, e.BookTitle, e.AddedAt, e.DeletedAt, e.Location, id)
	if err != nil {
		return fmt.Errorf("failed to update highlight: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	e.RowID = id
	return nil
}

func (r *SQLiteRepository) GetByKey(ctx context.Context, bookID, text string) (*models.HighlightEntry, error) {
	query := `SELECT ` + selectCols + ` FROM highlights WHERE book_id = ? AND text = ?`
	row := r.db.QueryRowContext(ctx, query, bookID, text)

	e := &models.HighlightEntry{}
	err := row.Scan(&e.RowID, &e.BookID, &e.Text, &e.BookTitle, &e.AddedAt, &e.DeletedAt, &e.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.HighlightEntry, error) {
	return r.selectMany(ctx, ``)
}

func (r *SQLiteRepository) GetAllActive(ctx context.Context) ([]models.HighlightEntry, error) {
	return r.selectMany(ctx, `WHERE `+activeCond)
}

func (r *SQLiteRepository) GetByBook(ctx context.Context, bookID string) ([]models.HighlightEntry, error) {
	return r.selectMany(ctx, `WHERE book_id = ? AND `+activeCond, bookID)
}

func (r *SQLiteRepository) selectMany(ctx context.Context, cond string, args ...any) ([]models.HighlightEntry, error) {
	// id order keeps display order stable across updates, which is the point
	// of preserving handles
	query := `SELECT ` + selectCols + ` FROM highlights ` + cond + ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select highlights: %w", err)
	}
	defer rows.Close()

	var result []models.HighlightEntry
	for rows.Next() {
		var e models.HighlightEntry
		if err := rows.Scan(&e.RowID, &e.BookID, &e.Text, &e.BookTitle, &e.AddedAt, &e.DeletedAt, &e.Location); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SoftDelete stamps the tombstone on an existing active row.
func (r *SQLiteRepository) SoftDelete(ctx context.Context, bookID, text string, deletedAt int64) error {
	query := `UPDATE highlights SET deleted_at = ? WHERE book_id = ? AND text = ? AND ` + activeCond
	res, err := r.db.ExecContext(ctx, query, deletedAt, bookID, text)
	if err != nil {
		return fmt.Errorf("failed to delete highlight: %w", err)
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

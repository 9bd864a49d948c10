package books

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

// Save upserts a book by id. On conflict every synchronized column is replaced.
func (r *SQLiteRepository) Save(ctx context.Context, b *models.Book) error {
	query := `INSERT INTO books (id, title, author, added_at, last_read_at, progress, last_location, paragraph_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				author = excluded.author,
				added_at = excluded.added_at,
				last_read_at = excluded.last_read_at,
				progress = excluded.progress,
				last_location = excluded.last_location,
				paragraph_count = excluded.paragraph_count
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Author, b.AddedAt, b.LastReadAt, b.Progress, b.LastLocation, b.ParagraphCount)
	if err != nil {
		return fmt.Errorf("failed to upsert book: %w", err)
	}
	return nil
}

// UpdateMetadata rewrites non-progress fields only.
func (r *SQLiteRepository) UpdateMetadata(ctx context.Context, b *models.Book) error {
	query := `UPDATE books SET title = ?, author = ?, paragraph_count = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, b.Title, b.Author, b.ParagraphCount, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update book metadata: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	query := `SELECT id, title, author, added_at, last_read_at, progress, last_location, paragraph_count
			FROM books WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	b := &models.Book{}
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.AddedAt, &b.LastReadAt, &b.Progress, &b.LastLocation, &b.ParagraphCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Book, error) {
	query := `SELECT id, title, author, added_at, last_read_at, progress, last_location, paragraph_count
			FROM books ORDER BY added_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select books: %w", err)
	}
	defer rows.Close()

	var result []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.AddedAt, &b.LastReadAt, &b.Progress, &b.LastLocation, &b.ParagraphCount); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

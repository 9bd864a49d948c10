// Package client wires the local replica database and its repositories.
package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/readkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/books"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/highlights"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/translations"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/vocabulary"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the per-entity repositories over one database.
type Repositories struct {
	Books        books.Repository
	Vocabulary   vocabulary.Repository
	Highlights   highlights.Repository
	Translations translations.Repository
	DB           *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	repos := &Repositories{
		Books:        books.NewSQLiteRepository(db),
		Vocabulary:   vocabulary.NewSQLiteRepository(db),
		Highlights:   highlights.NewSQLiteRepository(db),
		Translations: translations.NewSQLiteRepository(db),
		DB:           db,
	}
	return repos, nil
}

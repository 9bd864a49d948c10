// Package cli implements the ReadKeeper command line client.
package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/readkeeper/internal/client/client"
	"github.com/dmitrijs2005/readkeeper/internal/client/config"
	"github.com/dmitrijs2005/readkeeper/internal/client/locks"
	"github.com/dmitrijs2005/readkeeper/internal/client/remote"
	"github.com/dmitrijs2005/readkeeper/internal/client/services"
	"github.com/dmitrijs2005/readkeeper/internal/filex"
	"github.com/dmitrijs2005/readkeeper/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config       *config.Config
	repos        *client.Repositories
	books        *services.BookService
	vocabulary   *services.VocabularyService
	highlights   *services.HighlightService
	translations *services.TranslationService
	sync         *services.SyncService
	log          logging.Logger
	reader       *bufio.Reader
	out          io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	cache, err := filex.NewBookCache(c.BookCacheDir)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:       c,
		repos:        repos,
		books:        services.NewBookService(repos.Books, cache),
		vocabulary:   services.NewVocabularyService(repos.Vocabulary),
		highlights:   services.NewHighlightService(repos.Highlights),
		translations: services.NewTranslationService(repos.Translations, services.NewGlossTranslator(repos.Vocabulary), locks.NewRegistry(), log),
		log:          log,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}

	mirror, err := app.buildMirror(ctx)
	if err != nil {
		return nil, err
	}
	if mirror != nil {
		app.sync = services.NewSyncService(repos, mirror, cache, log)
	}

	return app, nil
}

// buildMirror constructs the S3 mirror from config. Without an access key the
// client runs purely locally and sync commands report that the mirror is not
// configured. A missing secret key is prompted for so it never has to live in
// a config file.
func (a *App) buildMirror(ctx context.Context) (remote.Mirror, error) {
	if a.config.S3AccessKey == "" {
		return nil, nil
	}

	secret := a.config.S3SecretKey
	if secret == "" {
		b, err := GetSecret(a.out, "Enter S3 secret key: ")
		if err != nil {
			return nil, err
		}
		secret = string(b)
	}

	return remote.NewS3Mirror(ctx, remote.S3Config{
		Region:       a.config.S3Region,
		BaseEndpoint: a.config.S3Endpoint,
		Bucket:       a.config.S3Bucket,
		AccessKey:    a.config.S3AccessKey,
		SecretKey:    secret,
		Prefix:       a.config.S3Prefix,
	})
}

func (a *App) Run(ctx context.Context) error {
	return a.rootCmd().ExecuteContext(ctx)
}

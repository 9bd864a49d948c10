// Package services implements the business operations of the reading client
// on top of the repositories, the local book cache and the remote mirror.
package services

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/books"
	"github.com/dmitrijs2005/readkeeper/internal/filex"
	"github.com/dmitrijs2005/readkeeper/internal/timex"
	"github.com/google/uuid"
)

type BookService struct {
	repo  books.Repository
	cache *filex.BookCache
}

func NewBookService(repo books.Repository, cache *filex.BookCache) *BookService {
	return &BookService{repo: repo, cache: cache}
}

// Import registers a book file: assigns a fresh id, copies the binary into
// the local cache and persists the record. The binary reaches the remote
// mirror on the next full sync.
func (s *BookService) Import(ctx context.Context, path, title, author string) (*models.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening book file: %w", err)
	}
	defer f.Close()

	b := &models.Book{
		ID:      uuid.NewString(),
		Title:   title,
		Author:  author,
		AddedAt: timex.NowMillis(),
	}

	if err := s.cache.Store(b.ID, f); err != nil {
		return nil, fmt.Errorf("error caching book file: %w", err)
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return b, nil
}

// UpdateProgress records a reading-position change. LastReadAt moves to now;
// this timestamp is what the merge and apply steps compare against, so it is
// set here and nowhere else.
func (s *BookService) UpdateProgress(ctx context.Context, id string, progress float64, location string) error {
	if progress < 0 || progress > 1 {
		return fmt.Errorf("progress %v out of range", progress)
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error retrieving book: %w", err)
	}

	b.Progress = progress
	b.LastLocation = location
	b.LastReadAt = timex.NowMillis()

	if err := s.repo.Save(ctx, b); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

// SetParagraphCount stores the number of translatable units, known once the
// book has been paginated.
func (s *BookService) SetParagraphCount(ctx context.Context, id string, n int64) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error retrieving book: %w", err)
	}
	b.ParagraphCount = &n
	if err := s.repo.Save(ctx, b); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	result, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	return result, nil
}

func (s *BookService) Get(ctx context.Context, id string) (*models.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving book: %w", err)
	}
	return b, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/highlights"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/timex"
)

type HighlightService struct {
	repo highlights.Repository
}

func NewHighlightService(repo highlights.Repository) *HighlightService {
	return &HighlightService{repo: repo}
}

// Add saves a passage. Re-adding a previously deleted highlight updates the
// existing row in place (same storage handle), refreshing addedAt past the
// tombstone; creation and revival share this path.
func (s *HighlightService) Add(ctx context.Context, bookID, text, bookTitle, location string) (*models.HighlightEntry, error) {
	now := timex.NowMillis()

	existing, err := s.repo.GetByKey(ctx, bookID, text)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		e := &models.HighlightEntry{
			BookID:    bookID,
			Text:      text,
			BookTitle: bookTitle,
			AddedAt:   now,
			Location:  location,
		}
		if err := s.repo.Insert(ctx, e); err != nil {
			return nil, fmt.Errorf("saving error: %w", err)
		}
		return e, nil
	case err != nil:
		return nil, fmt.Errorf("error retrieving highlight: %w", err)
	}

	existing.AddedAt = now
	existing.DeletedAt = nil
	if bookTitle != "" {
		existing.BookTitle = bookTitle
	}
	if location != "" {
		existing.Location = location
	}
	if err := s.repo.UpdateByID(ctx, existing.RowID, existing); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return existing, nil
}

// Delete soft-deletes a highlight by its identity key.
func (s *HighlightService) Delete(ctx context.Context, bookID, text string) error {
	if err := s.repo.SoftDelete(ctx, bookID, text, timex.NowMillis()); err != nil {
		return fmt.Errorf("error deleting highlight: %w", err)
	}
	return nil
}

// Active lists the highlights visible to the user.
func (s *HighlightService) Active(ctx context.Context) ([]models.HighlightEntry, error) {
	result, err := s.repo.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	return result, nil
}

// ByBook lists active highlights for one book.
func (s *HighlightService) ByBook(ctx context.Context, bookID string) ([]models.HighlightEntry, error) {
	result, err := s.repo.GetByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	return result, nil
}

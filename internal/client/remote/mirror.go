// Package remote defines the remote mirror: a dumb key-addressed blob store
// holding one metadata document per account, one binary blob per book, and
// one translation document per book. There is exactly one mirror and it does
// no merging; writes are whole-document replaces. A versioned conditional
// write could be added behind this interface without touching the merge
// engine.
package remote

import (
	"context"
	"io"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Mirror is the transport-agnostic view of the remote store. Absent keys
// surface as common.ErrorNotFound, a first-class outcome the sync treats as
// "nothing on that side", never as a failure.
type Mirror interface {
	// DownloadSnapshot fetches the metadata document.
	DownloadSnapshot(ctx context.Context) (*models.Snapshot, error)

	// UploadSnapshot replaces the metadata document as a whole.
	UploadSnapshot(ctx context.Context, s *models.Snapshot) error

	// ListBookFiles returns the ids of book blobs present remotely.
	ListBookFiles(ctx context.Context) (map[string]struct{}, error)

	// UploadBookFile stores the binary blob for a book.
	UploadBookFile(ctx context.Context, id string, r io.Reader) error

	// DownloadBookFile fetches the binary blob for a book. The caller closes
	// the reader.
	DownloadBookFile(ctx context.Context, id string) (io.ReadCloser, error)

	// DownloadTranslations fetches the per-book translation document.
	DownloadTranslations(ctx context.Context, bookID string) ([]models.TranslationEntry, error)

	// UploadTranslations replaces the per-book translation document.
	UploadTranslations(ctx context.Context, bookID string, entries []models.TranslationEntry) error
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/readkeeper/internal/client/client"
	"github.com/dmitrijs2005/readkeeper/internal/client/merge"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/remote"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/books"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/highlights"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/translations"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/vocabulary"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/dbx"
	"github.com/dmitrijs2005/readkeeper/internal/filex"
	"github.com/dmitrijs2005/readkeeper/internal/logging"
	"github.com/dmitrijs2005/readkeeper/internal/timex"
)

// SyncService owns the two sync entry points and the apply/write-back
// protocol between the merge engine and local storage.
//
// The apply rules exist because the merge is computed against a snapshot and
// the local replica keeps mutating while the merge/upload round trip is in
// flight: a write must never regress a record past where local state has
// already advanced since the snapshot was taken.
type SyncService struct {
	db           *sql.DB
	books        books.Repository
	vocabulary   vocabulary.Repository
	highlights   highlights.Repository
	translations translations.Repository
	mirror       remote.Mirror
	cache        *filex.BookCache
	log          logging.Logger

	// inFlight serializes syncs within one replica. A request arriving while
	// one runs is dropped, not queued; the next trigger re-attempts with
	// fresher state.
	inFlight atomic.Bool
}

func NewSyncService(repos *client.Repositories, mirror remote.Mirror, cache *filex.BookCache, log logging.Logger) *SyncService {
	return &SyncService{
		db:           repos.DB,
		books:        repos.Books,
		vocabulary:   repos.Vocabulary,
		highlights:   repos.Highlights,
		translations: repos.Translations,
		mirror:       mirror,
		cache:        cache,
		log:          log,
	}
}

// Sync runs a full bidirectional reconciliation: download, merge, apply,
// re-export fresh state, upload, then the per-book binary and translation
// steps. A failure before the metadata upload leaves local data untouched;
// per-item failures in the binary/translation steps are logged and do not
// abort their siblings.
func (s *SyncService) Sync(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Warn(ctx, "sync already in progress, dropping request")
		return common.ErrorSyncInProgress
	}
	defer s.inFlight.Store(false)

	remoteSnap, err := s.mirror.DownloadSnapshot(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		s.log.Info(ctx, "no remote snapshot yet, merging against empty")
		remoteSnap = &models.Snapshot{}
	} else if err != nil {
		return fmt.Errorf("snapshot download failed: %w", err)
	}

	local, err := s.exportSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("local export failed: %w", err)
	}

	merged := merge.Snapshots(*local, *remoteSnap)

	if err := s.apply(ctx, merged); err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	// upload true current local state, never the merge's opinion of it:
	// local writes may have landed while the merge ran
	fresh, err := s.exportSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("local export failed: %w", err)
	}
	if err := s.mirror.UploadSnapshot(ctx, fresh); err != nil {
		return fmt.Errorf("snapshot upload failed: %w", err)
	}

	s.syncBookFiles(ctx, fresh.Books)
	s.syncAllTranslations(ctx, fresh.Books)

	return nil
}

// Push uploads the current local snapshot without downloading or merging.
// Used on latency-sensitive triggers (right after a progress change) where a
// full round trip is too slow or would race a running full sync.
func (s *SyncService) Push(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Warn(ctx, "sync already in progress, dropping push")
		return common.ErrorSyncInProgress
	}
	defer s.inFlight.Store(false)

	snap, err := s.exportSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("local export failed: %w", err)
	}
	if err := s.mirror.UploadSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("snapshot upload failed: %w", err)
	}
	return nil
}

// exportSnapshot reads the full local state, including tombstones.
func (s *SyncService) exportSnapshot(ctx context.Context) (*models.Snapshot, error) {
	allBooks, err := s.books.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error exporting books: %w", err)
	}
	vocab, err := s.vocabulary.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error exporting vocabulary: %w", err)
	}
	hl, err := s.highlights.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error exporting highlights: %w", err)
	}

	return &models.Snapshot{
		Version:    models.SnapshotVersion,
		ExportedAt: timex.NowMillis(),
		Books:      allBooks,
		Vocabulary: vocab,
		Highlights: hl,
	}, nil
}

// apply integrates a merge result into local storage. Skip branches are
// normal control flow, logged for diagnosis but never surfaced as errors.
func (s *SyncService) apply(ctx context.Context, merged models.Snapshot) error {
	// vocabulary entries carry no regression hazard beyond what LWW already
	// resolved; unconditional upsert by key
	for i := range merged.Vocabulary {
		if err := s.vocabulary.Save(ctx, &merged.Vocabulary[i]); err != nil {
			return fmt.Errorf("error applying vocabulary: %w", err)
		}
	}

	if err := s.applyHighlights(ctx, merged.Highlights); err != nil {
		return fmt.Errorf("error applying highlights: %w", err)
	}

	if err := s.applyBooks(ctx, merged.Books); err != nil {
		return fmt.Errorf("error applying books: %w", err)
	}

	return nil
}

// applyHighlights updates matching rows in place so storage handles survive,
// and inserts the rest. Never a bulk clear-and-reinsert: that would destroy
// handles and lose any highlight added locally during the merge window that
// the snapshot didn't capture.
func (s *SyncService) applyHighlights(ctx context.Context, merged []models.HighlightEntry) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := highlights.NewSQLiteRepository(tx)

		current, err := repo.GetAll(ctx)
		if err != nil {
			return err
		}
		byKey := make(map[string]models.HighlightEntry, len(current))
		for _, h := range current {
			byKey[h.Key()] = h
		}

		for _, m := range merged {
			existing, ok := byKey[m.Key()]
			if !ok {
				h := m
				if err := repo.Insert(ctx, &h); err != nil {
					return err
				}
				continue
			}
			if m.LastTouched() >= existing.LastTouched() {
				h := m
				if err := repo.UpdateByID(ctx, existing.RowID, &h); err != nil {
					return err
				}
			} else {
				s.log.Info(ctx, "skipping stale highlight from merge",
					"book_id", m.BookID, "merged_touched", m.LastTouched(), "local_touched", existing.LastTouched())
			}
		}
		return nil
	})
}

// applyBooks compares each merged book against the *current* local row, not
// the snapshot the merge saw. Strictly newer adopts the whole record; an
// exact tie adopts non-progress metadata only; older is skipped outright.
// This is what keeps a merge computed against a slightly-stale snapshot from
// undoing progress made while the sync was in flight.
func (s *SyncService) applyBooks(ctx context.Context, merged []models.Book) error {
	for _, m := range merged {
		current, err := s.books.GetByID(ctx, m.ID)
		if errors.Is(err, common.ErrorNotFound) {
			b := m
			if err := s.books.Save(ctx, &b); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		switch {
		case m.LastReadAt > current.LastReadAt:
			b := m
			if b.ParagraphCount == nil {
				// a locally computed count is not given up for a side that
				// never had one
				b.ParagraphCount = current.ParagraphCount
			}
			if err := s.books.Save(ctx, &b); err != nil {
				return err
			}
		case m.LastReadAt == current.LastReadAt:
			b := m
			if b.ParagraphCount == nil {
				b.ParagraphCount = current.ParagraphCount
			}
			if err := s.books.UpdateMetadata(ctx, &b); err != nil {
				return err
			}
		default:
			s.log.Info(ctx, "skipping stale book state from merge",
				"book_id", m.ID, "merged_last_read_at", m.LastReadAt, "local_last_read_at", current.LastReadAt)
		}
	}
	return nil
}

// syncBookFiles reconciles the binary blobs: upload what only exists locally,
// download what only exists remotely. Blobs are opaque and never compared for
// newness. One book's failure does not stop the others.
func (s *SyncService) syncBookFiles(ctx context.Context, allBooks []models.Book) {
	remoteIDs, err := s.mirror.ListBookFiles(ctx)
	if err != nil {
		s.log.Error(ctx, "book file listing failed, skipping binary sync", "error", err)
		return
	}

	for _, b := range allBooks {
		_, onRemote := remoteIDs[b.ID]
		cached := s.cache.Has(b.ID)

		switch {
		case cached && !onRemote:
			if err := s.uploadBookFile(ctx, b.ID); err != nil {
				s.log.Error(ctx, "book file upload failed", "book_id", b.ID, "error", err)
			}
		case !cached && onRemote:
			if err := s.downloadBookFile(ctx, b.ID); err != nil {
				s.log.Error(ctx, "book file download failed", "book_id", b.ID, "error", err)
			}
		}
	}
}

func (s *SyncService) uploadBookFile(ctx context.Context, id string) error {
	f, err := s.cache.Open(id)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.mirror.UploadBookFile(ctx, id, f)
}

func (s *SyncService) downloadBookFile(ctx context.Context, id string) error {
	rc, err := s.mirror.DownloadBookFile(ctx, id)
	if err != nil {
		return err
	}
	defer rc.Close()
	return s.cache.Store(id, rc)
}

// syncAllTranslations reconciles every book's translation document. Per-book
// failures are logged and do not abort the remaining books.
func (s *SyncService) syncAllTranslations(ctx context.Context, allBooks []models.Book) {
	for _, b := range allBooks {
		if err := s.syncBookTranslations(ctx, b.ID); err != nil {
			s.log.Error(ctx, "translation sync failed", "book_id", b.ID, "error", err)
		}
	}
}

// syncBookTranslations merges the local and remote translation sets for one
// book (a pure union) and uploads the post-apply state re-read from storage.
func (s *SyncService) syncBookTranslations(ctx context.Context, bookID string) error {
	remoteEntries, err := s.mirror.DownloadTranslations(ctx, bookID)
	if errors.Is(err, common.ErrorNotFound) {
		remoteEntries = nil
	} else if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	localEntries, err := s.translations.GetByBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("local read failed: %w", err)
	}

	if len(remoteEntries) == 0 && len(localEntries) == 0 {
		return nil
	}

	merged := merge.Translations(localEntries, remoteEntries)
	for i := range merged {
		merged[i].BookID = bookID
		if err := s.translations.Save(ctx, &merged[i]); err != nil {
			return fmt.Errorf("local write failed: %w", err)
		}
	}

	fresh, err := s.translations.GetByBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("local re-read failed: %w", err)
	}
	if err := s.mirror.UploadTranslations(ctx, bookID, fresh); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

// Package merge implements the conflict-resolution engine: pure functions
// that reconcile two full-state snapshots (or two per-book translation sets)
// into one. Nothing here touches storage or the network; the sync service
// owns all I/O and applies the result through the write-back protocol.
//
// The per-key rules realize an LWW-Element-Set: the outcome for any key
// depends only on the two candidate records' own timestamps, never on which
// side is labeled local or remote. Either replica may initiate the sync, so
// the result must be symmetric up to the documented local-favoring tie-break.
package merge

import (
	"sort"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Snapshots reconciles a local and a remote snapshot into one. Inputs are not
// mutated. Output slices are sorted by identity key so that merging a
// snapshot with itself (or re-merging a merge result) is byte-stable.
func Snapshots(local, remote models.Snapshot) models.Snapshot {
	local = foldLegacyDeletions(local)
	remote = foldLegacyDeletions(remote)

	out := models.Snapshot{
		Version:    models.SnapshotVersion,
		ExportedAt: maxInt64(local.ExportedAt, remote.ExportedAt),
		Books:      Books(local.Books, remote.Books),
		Vocabulary: Vocabulary(local.Vocabulary, remote.Vocabulary),
		Highlights: Highlights(local.Highlights, remote.Highlights),
	}
	return out
}

// Books merges by id. For a key present on both sides the side with the
// strictly greater lastReadAt wins in its entirety; equal timestamps retain
// the local version. Keys present on one side pass through unchanged.
func Books(local, remote []models.Book) []models.Book {
	byID := make(map[string]models.Book, len(local)+len(remote))
	for _, b := range remote {
		byID[b.ID] = b
	}
	for _, b := range local {
		if r, ok := byID[b.ID]; ok && r.LastReadAt > b.LastReadAt {
			continue
		}
		byID[b.ID] = b
	}

	out := make([]models.Book, 0, len(byID))
	for _, b := range byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Vocabulary merges by normalized word: strictly greater LastTouched wins the
// whole record; on an exact tie the local record is kept with the lookup
// count and spaced-repetition fields raised element-wise, so neither side's
// progress is discarded.
func Vocabulary(local, remote []models.VocabularyEntry) []models.VocabularyEntry {
	byWord := make(map[string]models.VocabularyEntry, len(local)+len(remote))
	for _, e := range remote {
		byWord[models.NormalizeWord(e.Word)] = e
	}
	for _, e := range local {
		key := models.NormalizeWord(e.Word)
		r, ok := byWord[key]
		if !ok {
			byWord[key] = e
			continue
		}
		switch {
		case e.LastTouched() > r.LastTouched():
			byWord[key] = e
		case e.LastTouched() < r.LastTouched():
			// remote already in place
		default:
			e.Count = maxInt64(e.Count, r.Count)
			e.Interval = maxInt64(e.Interval, r.Interval)
			e.NextReview = maxInt64(e.NextReview, r.NextReview)
			if r.EaseFactor > e.EaseFactor {
				e.EaseFactor = r.EaseFactor
			}
			byWord[key] = e
		}
	}

	out := make([]models.VocabularyEntry, 0, len(byWord))
	for _, e := range byWord {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return models.NormalizeWord(out[i].Word) < models.NormalizeWord(out[j].Word)
	})
	return out
}

// Highlights merges by the bookId+text composite key with the same LWW rule
// as vocabulary. Ties keep the local record; highlights carry no counters to
// merge element-wise. Storage handles (RowID) are a local concern and carry
// no meaning in a merge result.
func Highlights(local, remote []models.HighlightEntry) []models.HighlightEntry {
	byKey := make(map[string]models.HighlightEntry, len(local)+len(remote))
	for _, e := range remote {
		byKey[e.Key()] = e
	}
	for _, e := range local {
		if r, ok := byKey[e.Key()]; ok && r.LastTouched() > e.LastTouched() {
			continue
		}
		byKey[e.Key()] = e
	}

	out := make([]models.HighlightEntry, 0, len(byKey))
	for _, e := range byKey {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Translations is a pure key union: nothing is ever dropped. When both sides
// carry the same hash, the more recently saved translation string is kept;
// an exact tie (or a hash collision with differing source text, which a
// per-book 32-bit hash makes extremely unlikely) keeps the local string.
func Translations(local, remote []models.TranslationEntry) []models.TranslationEntry {
	byHash := make(map[string]models.TranslationEntry, len(local)+len(remote))
	for _, e := range remote {
		byHash[e.Hash] = e
	}
	for _, e := range local {
		if r, ok := byHash[e.Hash]; ok && r.SavedAt > e.SavedAt {
			continue
		}
		byHash[e.Hash] = e
	}

	out := make([]models.TranslationEntry, 0, len(byHash))
	for _, e := range byHash {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out
}

// foldLegacyDeletions rewrites a version-1 snapshot in place of its
// side-channel deletion lists: each marker becomes (or raises) the DeletedAt
// tombstone of the matching record, and a marker with no matching record
// synthesizes an inactive one so the deletion still propagates. The lists are
// then discarded; legacy data must not bypass the LWW rule.
func foldLegacyDeletions(s models.Snapshot) models.Snapshot {
	if len(s.DeletedWords) == 0 && len(s.DeletedHighlights) == 0 {
		return s
	}

	vocab := make([]models.VocabularyEntry, len(s.Vocabulary))
	copy(vocab, s.Vocabulary)
	vocabIdx := make(map[string]int, len(vocab))
	for i, e := range vocab {
		vocabIdx[models.NormalizeWord(e.Word)] = i
	}
	for _, m := range s.DeletedWords {
		key := models.NormalizeWord(m.Key)
		at := m.DeletedAt
		if i, ok := vocabIdx[key]; ok {
			if vocab[i].DeletedAt == nil || *vocab[i].DeletedAt < at {
				vocab[i].DeletedAt = &at
			}
			continue
		}
		vocab = append(vocab, models.VocabularyEntry{Word: key, DeletedAt: &at})
		vocabIdx[key] = len(vocab) - 1
	}

	highlights := make([]models.HighlightEntry, len(s.Highlights))
	copy(highlights, s.Highlights)
	hlIdx := make(map[string]int, len(highlights))
	for i, e := range highlights {
		hlIdx[e.Key()] = i
	}
	for _, m := range s.DeletedHighlights {
		at := m.DeletedAt
		if i, ok := hlIdx[m.Key]; ok {
			if highlights[i].DeletedAt == nil || *highlights[i].DeletedAt < at {
				highlights[i].DeletedAt = &at
			}
			continue
		}
		bookID, text, ok := models.SplitHighlightKey(m.Key)
		if !ok {
			continue
		}
		highlights = append(highlights, models.HighlightEntry{BookID: bookID, Text: text, DeletedAt: &at})
		hlIdx[m.Key] = len(highlights) - 1
	}

	s.Vocabulary = vocab
	s.Highlights = highlights
	s.DeletedWords = nil
	s.DeletedHighlights = nil
	return s
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

package models

import "strings"

// VocabularyEntry is one looked-up word. The identity key is the
// case-normalized word itself.
type VocabularyEntry struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
	AddedAt     int64  `json:"addedAt"`

	// Book is the title of the book the word was first looked up in. Advisory.
	Book string `json:"book,omitempty"`

	// Count is the number of lookups across all replicas. Merged element-wise
	// (max) when two versions tie on LastTouched.
	Count int64 `json:"count"`

	// Spaced-repetition state, mutated by an external scheduler. The merge
	// treats these as monotonic-ish and keeps the max on a tie.
	NextReview int64   `json:"nextReview,omitempty"`
	Interval   int64   `json:"interval,omitempty"`
	EaseFactor float64 `json:"easeFactor,omitempty"`

	DeletedAt *int64 `json:"deletedAt,omitempty"`
}

// NormalizeWord produces the identity key for a vocabulary entry.
func NormalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// LastTouched returns the timestamp this entry competes with during merge.
func (e *VocabularyEntry) LastTouched() int64 {
	return lastTouched(e.AddedAt, e.DeletedAt)
}

// IsActive reports whether the entry should be visible to display and
// business logic. Inactive entries still participate in export and merge.
func (e *VocabularyEntry) IsActive() bool {
	return isActive(e.AddedAt, e.DeletedAt)
}

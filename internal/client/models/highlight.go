package models

import "strings"

// highlightKeySep joins book id and text into one identity key. A unit
// separator cannot occur in either part.
const highlightKeySep = "\x1f"

// HighlightEntry is one saved passage. Identity is the composite of BookID
// and the exact Text; two highlights with identical text in the same book are
// indistinguishable by design.
type HighlightEntry struct {
	// RowID is the local storage handle (SQLite rowid). It is never part of
	// the synchronized record and must be preserved across updates to the
	// same logical highlight to avoid display-order churn and duplicate rows.
	RowID int64 `json:"-"`

	BookID    string `json:"bookId"`
	Text      string `json:"text"`
	BookTitle string `json:"bookTitle,omitempty"`

	AddedAt   int64  `json:"addedAt"`
	DeletedAt *int64 `json:"deletedAt,omitempty"`

	// Location is an optional positional marker inside the book.
	Location string `json:"location,omitempty"`
}

// Key returns the identity key used for grouping during merge and apply.
func (e *HighlightEntry) Key() string {
	return HighlightKey(e.BookID, e.Text)
}

// HighlightKey builds the composite identity key for a highlight.
func HighlightKey(bookID, text string) string {
	return bookID + highlightKeySep + text
}

// SplitHighlightKey recovers the book id and text from a composite key.
func SplitHighlightKey(key string) (bookID, text string, ok bool) {
	bookID, text, ok = strings.Cut(key, highlightKeySep)
	return
}

// LastTouched returns the timestamp this entry competes with during merge.
func (e *HighlightEntry) LastTouched() int64 {
	return lastTouched(e.AddedAt, e.DeletedAt)
}

// IsActive reports whether the highlight should be visible to display logic.
func (e *HighlightEntry) IsActive() bool {
	return isActive(e.AddedAt, e.DeletedAt)
}

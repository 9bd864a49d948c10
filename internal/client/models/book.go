package models

// Book is one imported reading item. The binary content and cover are not
// part of this record; they live in the local book cache and on the remote
// mirror as opaque blobs keyed by ID, and are never compared for newness.
//
// Progress, LastLocation and LastReadAt replace atomically as a unit during
// merge and apply. Partial field adoption would mix a newer title with stale
// progress (or the reverse), so the side with the greater LastReadAt wins the
// whole record.
type Book struct {
	// ID is assigned at import and never reused.
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`

	AddedAt    int64 `json:"addedAt"`
	LastReadAt int64 `json:"lastReadAt"`

	// Progress is a fraction in [0,1]. LastLocation is an opaque fine-grained
	// position marker, advisory only.
	Progress     float64 `json:"progress"`
	LastLocation string  `json:"lastLocation,omitempty"`

	// ParagraphCount is the number of unique translatable units, used for
	// completion display. Nil until the book has been paginated.
	ParagraphCount *int64 `json:"paragraphCount,omitempty"`
}

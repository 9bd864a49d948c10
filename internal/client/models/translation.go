package models

import "strconv"

// TranslationEntry is one cached paragraph translation. Keyed per book by a
// content hash of the source paragraph. Never soft- or hard-deleted in normal
// operation; sync is purely additive.
type TranslationEntry struct {
	BookID      string `json:"-"`
	Hash        string `json:"hash"`
	Original    string `json:"original,omitempty"`
	Translation string `json:"translation"`
	SavedAt     int64  `json:"savedAt,omitempty"`
}

// HashText computes the paragraph content hash: a 32-bit rolling hash,
// magnitude base-36 encoded. Not cryptographic; collisions are tolerated
// because the key space is scoped per book.
func HashText(s string) string {
	var h int32
	for _, r := range s {
		h = h*31 + r
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

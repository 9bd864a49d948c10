// Package models defines the merge-synchronized entity types of the reading
// library: books, vocabulary entries, highlights, cached paragraph
// translations, and the snapshot document exchanged with the remote mirror.
//
// Deletable entities are never physically removed. They carry an optional
// DeletedAt tombstone so the deletion itself replicates: a physically removed
// row would disappear from future merges as if it never existed and silently
// come back from any replica that never saw the delete.
package models

// lastTouched is the timestamp a record competes with during merge:
// the greater of addedAt and the tombstone, absent tombstone counting as 0.
func lastTouched(addedAt int64, deletedAt *int64) int64 {
	if deletedAt != nil && *deletedAt > addedAt {
		return *deletedAt
	}
	return addedAt
}

// isActive implements the liveness rule shared by vocabulary and highlights:
// a record is active unless a tombstone exists that addedAt has not outrun.
// Re-adding a deleted key refreshes addedAt past deletedAt, reviving it.
func isActive(addedAt int64, deletedAt *int64) bool {
	return deletedAt == nil || addedAt > *deletedAt
}

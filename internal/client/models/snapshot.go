package models

// SnapshotVersion is the current metadata document format. Version 1
// documents carried deletions in side-channel lists (DeletedWords,
// DeletedHighlights) instead of per-record tombstones.
const SnapshotVersion = 2

// Snapshot is a full point-in-time export of all merge-relevant entities
// from one replica. It includes inactive (soft-deleted) records; filtering
// to active records is a display concern, never a sync concern.
//
// Translations are not part of the snapshot. They are reconciled separately
// per book as their own remote document.
type Snapshot struct {
	Version    int   `json:"version"`
	ExportedAt int64 `json:"exportedAt"`

	Books      []Book            `json:"books"`
	Vocabulary []VocabularyEntry `json:"vocabulary"`
	Highlights []HighlightEntry  `json:"highlights"`

	// Legacy (version 1) side-channel deletion markers. The merge engine
	// folds these into per-record DeletedAt tombstones and discards them;
	// they never appear in an exported snapshot.
	DeletedWords      []DeletionMarker `json:"deletedWords,omitempty"`
	DeletedHighlights []DeletionMarker `json:"deletedHighlights,omitempty"`
}

// DeletionMarker is the version-1 representation of a deletion: the entity
// identity key plus when it was deleted.
type DeletionMarker struct {
	Key       string `json:"key"`
	DeletedAt int64  `json:"deletedAt"`
}

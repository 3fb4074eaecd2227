package storage

import (
	"context"

	"github.com/poiesic/resumedex/core"
)

// DocumentCache stores clean document sets keyed by cache key (one key per
// source directory). A set is always written and read wholesale: there are
// no partial updates, and a save for an existing key replaces the previous
// set entirely.
type DocumentCache interface {
	// LoadDocuments retrieves the cached set for cacheKey.
	// Returns ErrNotFound if no set has been cached under that key.
	LoadDocuments(ctx context.Context, cacheKey string) (*core.DocumentSet, error)

	// SaveDocuments stores the set under cacheKey, replacing any previous
	// set atomically.
	SaveDocuments(ctx context.Context, cacheKey string, set *core.DocumentSet) error

	// Close closes the underlying store.
	Close() error
}

// IndexRepository persists semantic index snapshots. A repository holds at
// most one snapshot; saving replaces the previous one. A partially written
// snapshot must never load successfully: implementations write the metadata
// record last and treat its absence or inconsistency as ErrNotFound or
// ErrSerializationFailed.
type IndexRepository interface {
	// LoadIndex retrieves the persisted snapshot.
	// Returns ErrNotFound if no complete snapshot exists.
	LoadIndex(ctx context.Context) (*core.IndexSnapshot, error)

	// SaveIndex persists the snapshot, replacing any previous one.
	SaveIndex(ctx context.Context, snapshot *core.IndexSnapshot) error

	// Close closes the underlying store.
	Close() error
}

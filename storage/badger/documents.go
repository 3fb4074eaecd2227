package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/resumedex/core"
	"github.com/poiesic/resumedex/storage"
)

// DocumentCache implements storage.DocumentCache for BadgerDB.
// Each cached set lives under a single key, so saves and loads are
// all-or-nothing by construction.
type DocumentCache struct {
	backend *Backend
}

var _ storage.DocumentCache = (*DocumentCache)(nil)

// NewDocumentCache creates a document cache on the given backend.
//
// Returns the storage.DocumentCache interface to enforce abstraction.
func NewDocumentCache(backend *Backend) (storage.DocumentCache, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &DocumentCache{backend: backend}, nil
}

// Close releases resources. The backend is owned by the caller.
func (c *DocumentCache) Close() error {
	return nil
}

// LoadDocuments retrieves the cached set for cacheKey.
func (c *DocumentCache) LoadDocuments(ctx context.Context, cacheKey string) (*core.DocumentSet, error) {
	var set *core.DocumentSet
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocSetKey(cacheKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			set, err = storage.UnmarshalDocumentSet(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// SaveDocuments stores the set under cacheKey, replacing any previous set.
func (c *DocumentCache) SaveDocuments(ctx context.Context, cacheKey string, set *core.DocumentSet) error {
	if set == nil {
		return errors.New("document set required")
	}
	value := storage.MarshalDocumentSet(set)
	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeDocSetKey(cacheKey), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/resumedex/core"
	"github.com/poiesic/resumedex/storage"
)

// entryBatchSize bounds how many index entries are written per transaction.
// Entries carry full document text plus an embedding vector, so unbounded
// transactions can exceed Badger's transaction size limit on large corpora.
const entryBatchSize = 64

// IndexRepository implements storage.IndexRepository for BadgerDB.
//
// The metadata record is deleted first on save and written last, so a crash
// mid-save always leaves the store without valid metadata and a subsequent
// LoadIndex reports ErrNotFound instead of returning a partial snapshot.
type IndexRepository struct {
	backend *Backend
}

var _ storage.IndexRepository = (*IndexRepository)(nil)

// NewIndexRepository creates an index repository on the given backend.
//
// Returns the storage.IndexRepository interface to enforce abstraction.
func NewIndexRepository(backend *Backend) (storage.IndexRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &IndexRepository{backend: backend}, nil
}

// Close releases resources. The backend is owned by the caller.
func (r *IndexRepository) Close() error {
	return nil
}

// LoadIndex retrieves the persisted snapshot.
func (r *IndexRepository) LoadIndex(ctx context.Context) (*core.IndexSnapshot, error) {
	var snapshot core.IndexSnapshot
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(indexMetaKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var meta *core.IndexMeta
		if err := item.Value(func(val []byte) error {
			meta, err = storage.UnmarshalIndexMeta(val)
			return err
		}); err != nil {
			return err
		}
		snapshot.Meta = *meta

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(indexEntryPfx + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		snapshot.Entries = make([]core.IndexedDocument, 0, meta.DocumentCount)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.IndexedDocument
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalIndexedDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			snapshot.Entries = append(snapshot.Entries, *entry)
		}

		if len(snapshot.Entries) != meta.DocumentCount {
			return fmt.Errorf("%w: metadata says %d entries, found %d",
				storage.ErrSerializationFailed, meta.DocumentCount, len(snapshot.Entries))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SaveIndex persists the snapshot, replacing any previous one.
func (r *IndexRepository) SaveIndex(ctx context.Context, snapshot *core.IndexSnapshot) error {
	if snapshot == nil {
		return errors.New("index snapshot required")
	}
	if len(snapshot.Entries) != snapshot.Meta.DocumentCount {
		return fmt.Errorf("%w: metadata count %d does not match %d entries",
			storage.ErrSerializationFailed, snapshot.Meta.DocumentCount, len(snapshot.Entries))
	}

	// Invalidate the previous snapshot before touching entries.
	if err := r.clearSnapshot(); err != nil {
		return err
	}

	// Write entries in bounded batches.
	for start := 0; start < len(snapshot.Entries); start += entryBatchSize {
		end := min(start+entryBatchSize, len(snapshot.Entries))
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for i := start; i < end; i++ {
				value := storage.MarshalIndexedDocument(&snapshot.Entries[i])
				if err := tx.Set(makeIndexEntryKey(uint64(i)), value); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}

	// Metadata last: its presence is what marks the snapshot complete.
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(indexMetaKey), storage.MarshalIndexMeta(&snapshot.Meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// clearSnapshot deletes the metadata record and all entries.
func (r *IndexRepository) clearSnapshot() error {
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(indexEntryPfx + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	// Meta first, so readers never see old metadata over new entries.
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		err := tx.Delete([]byte(indexMetaKey))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	for start := 0; start < len(keys); start += entryBatchSize {
		end := min(start+entryBatchSize, len(keys))
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, key := range keys[start:end] {
				if err := tx.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// HasSnapshot reports whether a complete snapshot (valid metadata) exists.
func (r *IndexRepository) HasSnapshot() bool {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte(indexMetaKey))
		return err
	}, false)
	return err == nil
}

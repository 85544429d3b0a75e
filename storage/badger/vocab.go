package badger

import (
	"cmp"
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/symptomap/core"
	"github.com/poiesic/symptomap/storage"
)

// VocabRepository implements storage.VocabRepository for BadgerDB.
type VocabRepository struct {
	backend *Backend
}

var _ storage.VocabRepository = (*VocabRepository)(nil)

// NewVocabRepository creates a new VocabRepository.
func NewVocabRepository(backend *Backend) (*VocabRepository, error) {
	return &VocabRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VocabRepository has no resources to release.
func (r *VocabRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VocabRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddEntries adds one or more vocabulary entries to storage.
func (r *VocabRepository) AddEntries(ctx context.Context, entries ...*core.VocabEntry) ([]*core.VocabEntry, error) {
	// Validate everything up front so a bad entry cannot leave a
	// half-written batch behind.
	for _, entry := range entries {
		if err := core.ValidateVocabEntry(entry); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			// Use content-based ID if not set
			if entry.Id == 0 {
				entry.Id = core.IDFromContent(entry.Key)
			}

			// Store primary record
			key := makeVocabEntryKey(entry.Id)
			value := storage.MarshalVocabEntry(entry)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Store key index
			keyIdx := makeVocabKeyKey(entry.Key)
			if err := tx.Set(keyIdx, storage.MarshalID(entry.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// GetEntry retrieves a single vocabulary entry by ID.
func (r *VocabRepository) GetEntry(ctx context.Context, id core.ID) (*core.VocabEntry, error) {
	var result *core.VocabEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeVocabEntryKey(id)
		var err error
		result, err = readEntry(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindEntryByKey finds an entry by its stable vocabulary key.
func (r *VocabRepository) FindEntryByKey(ctx context.Context, vocabKey string) (*core.VocabEntry, error) {
	var result *core.VocabEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Look up ID from key index
		item, err := tx.Get(makeVocabKeyKey(vocabKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var entryID core.ID
		err = item.Value(func(val []byte) error {
			entryID, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		// Look up full entry
		result, err = readEntry(tx, makeVocabEntryKey(entryID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// AllEntries retrieves every vocabulary entry, ordered by ID.
func (r *VocabRepository) AllEntries(ctx context.Context) ([]*core.VocabEntry, error) {
	var results []*core.VocabEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(vocabEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var entry *core.VocabEntry
			err := item.Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVocabEntry(val)
				return err
			})
			if err != nil {
				return err
			}

			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Keys sort as decimal strings; reorder numerically.
	sortEntriesByID(results)
	return results, nil
}

// CountEntries returns the number of stored vocabulary entries.
func (r *VocabRepository) CountEntries(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // key-only scan
		opts.Prefix = []byte(vocabEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DeleteEntries removes vocabulary entries by their IDs.
func (r *VocabRepository) DeleteEntries(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeVocabEntryKey(id)

			// Read entry to get the vocabulary key for index cleanup
			entry, err := readEntry(tx, key)
			if err != nil {
				return err
			}
			if entry == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeVocabKeyKey(entry.Key)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// PutManifest stores the index build manifest, replacing any previous one.
func (r *VocabRepository) PutManifest(ctx context.Context, manifest *core.IndexManifest) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeManifestKey(), storage.MarshalIndexManifest(manifest)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetManifest retrieves the index build manifest.
func (r *VocabRepository) GetManifest(ctx context.Context) (*core.IndexManifest, error) {
	var result *core.IndexManifest
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeManifestKey())
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalIndexManifest(val)
			return err
		})
	}, false)
	return result, err
}

// Helper methods

// readEntry reads a vocabulary entry from the transaction.
func readEntry(tx *badger.Txn, key []byte) (*core.VocabEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.VocabEntry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalVocabEntry(val)
		return err
	})
	return entry, err
}

// sortEntriesByID sorts entries by ID ascending.
func sortEntriesByID(entries []*core.VocabEntry) {
	slices.SortFunc(entries, func(a, b *core.VocabEntry) int {
		return cmp.Compare(a.Id, b.Id)
	})
}

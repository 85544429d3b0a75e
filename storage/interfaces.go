package storage

import (
	"context"

	"github.com/poiesic/symptomap/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// VocabRepository provides operations for the persisted symptom vocabulary.
// The indexer writes entries and a manifest once; readers load them back to
// reconstruct the in-memory search index.
type VocabRepository interface {
	Repository
	// AddEntries adds one or more vocabulary entries to storage.
	// For entries with Id=0, derives a content-based ID from the key.
	// Entries must pass shape validation; nothing is written on failure.
	// Returns the entries with IDs populated.
	AddEntries(ctx context.Context, entries ...*core.VocabEntry) ([]*core.VocabEntry, error)

	// GetEntry retrieves a single vocabulary entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, id core.ID) (*core.VocabEntry, error)

	// FindEntryByKey finds an entry by its stable vocabulary key.
	// Returns ErrNotFound if no matching entry exists.
	FindEntryByKey(ctx context.Context, key string) (*core.VocabEntry, error)

	// AllEntries retrieves every vocabulary entry, ordered by ID.
	AllEntries(ctx context.Context) ([]*core.VocabEntry, error)

	// CountEntries returns the number of stored vocabulary entries
	// without materializing them.
	CountEntries(ctx context.Context) (int, error)

	// DeleteEntries removes vocabulary entries by their IDs.
	// Returns ErrNotFound if any entry doesn't exist.
	DeleteEntries(ctx context.Context, ids ...core.ID) error

	// PutManifest stores the index build manifest, replacing any previous one.
	PutManifest(ctx context.Context, manifest *core.IndexManifest) error

	// GetManifest retrieves the index build manifest.
	// Returns ErrNotFound if no manifest has been written.
	GetManifest(ctx context.Context) (*core.IndexManifest, error)
}

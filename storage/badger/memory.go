package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/storage"
)

// MemoryRepository implements storage.MemoryRepository for BadgerDB.
//
// Entries are append-only. Refinement never rewrites stored text: the
// predecessor is flipped to superseded and the successor inserted in the
// same transaction.
type MemoryRepository struct {
	backend *Backend
}

var _ storage.MemoryRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository(backend *Backend) *MemoryRepository {
	return &MemoryRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *MemoryRepository) Close() error {
	return nil
}

// InsertEntry adds a new entry, setting CreatedAt/UpdatedAt.
func (r *MemoryRepository) InsertEntry(ctx context.Context, entry *core.MemoryEntry) (*core.MemoryEntry, error) {
	if err := core.ValidateMemoryEntry(entry); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		entry.CreatedAt = time.Now().UTC()
		entry.UpdatedAt = entry.CreatedAt

		if err := writeMemoryEntry(tx, entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return entry, err
}

// GetEntry retrieves an entry by ID.
func (r *MemoryRepository) GetEntry(ctx context.Context, id string) (*core.MemoryEntry, error) {
	var result *core.MemoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readMemoryEntry(tx, makeMemoryKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return core.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Supersede atomically flips the entry identified by oldID to superseded
// and inserts the successor. The successor's Supersedes field is set to
// oldID inside the transaction.
func (r *MemoryRepository) Supersede(ctx context.Context, oldID string, successor *core.MemoryEntry) (*core.MemoryEntry, error) {
	if err := core.ValidateMemoryEntry(successor); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readMemoryEntry(tx, makeMemoryKey(oldID))
		if err != nil {
			return err
		}
		if old == nil {
			return core.ErrNotFound
		}
		if old.Status == core.StatusSuperseded {
			return core.ErrConflict
		}

		now := time.Now().UTC()

		old.Status = core.StatusSuperseded
		old.UpdatedAt = now
		if err := writeMemoryEntry(tx, old); err != nil {
			return err
		}

		successor.Status = core.StatusActive
		successor.Supersedes = oldID
		successor.CreatedAt = now
		successor.UpdatedAt = now
		if err := writeMemoryEntry(tx, successor); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return successor, nil
}

// ListEntries returns a user's entries with the given status in creation
// order (ULID keys sort chronologically). A zero status lists all entries.
func (r *MemoryRepository) ListEntries(ctx context.Context, userID string, status core.MemoryStatus, newestFirst bool) ([]*core.MemoryEntry, error) {
	var results []*core.MemoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scanUser(tx, userID, func(entry *core.MemoryEntry) error {
			if status != 0 && entry.Status != status {
				return nil
			}
			results = append(results, entry)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	if newestFirst {
		slices.Reverse(results)
	}
	if results == nil {
		results = []*core.MemoryEntry{}
	}
	return results, nil
}

// FindSimilar scans the user's active embedded entries and ranks by
// descending cosine similarity to the query vector.
func (r *MemoryRepository) FindSimilar(ctx context.Context, userID string, vector []float32, limit int) ([]*core.ScoredEntry, error) {
	var results []*core.ScoredEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scanUser(tx, userID, func(entry *core.MemoryEntry) error {
			if entry.Status != core.StatusActive || len(entry.Vector) == 0 {
				return nil
			}
			similarity := dotProduct(vector, entry.Vector)
			results = append(results, &core.ScoredEntry{
				Entry:      entry,
				Similarity: similarity,
			})
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ScoredEntry) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []*core.ScoredEntry{}
	}
	return results, nil
}

// Helper methods

// scanUser walks a user's memory index in key order, resolving each entry.
func (r *MemoryRepository) scanUser(tx *badger.Txn, userID string, visit func(*core.MemoryEntry) error) error {
	prefix := makePartialMemoryUserKey(userID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var entryID string
		if err := iter.Item().Value(func(val []byte) error {
			entryID = string(val)
			return nil
		}); err != nil {
			return err
		}

		entry, err := readMemoryEntry(tx, makeMemoryKey(entryID))
		if err != nil {
			return err
		}
		if entry == nil {
			continue
		}
		// User IDs are free text, so one ID can collide with another
		// user's index prefix. Ownership comes from the record itself.
		if entry.UserID != userID {
			continue
		}
		if err := visit(entry); err != nil {
			return err
		}
	}
	return nil
}

// writeMemoryEntry stores an entry and its per-user index key.
func writeMemoryEntry(tx *badger.Txn, entry *core.MemoryEntry) error {
	if err := tx.Set(makeMemoryKey(entry.ID), storage.MarshalMemoryEntry(entry)); err != nil {
		return err
	}
	indexKey := makeMemoryUserKey(entry.UserID, entry.ID)
	return tx.Set(indexKey, []byte(entry.ID))
}

// readMemoryEntry reads a memory entry from the transaction.
func readMemoryEntry(tx *badger.Txn, key []byte) (*core.MemoryEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.MemoryEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalMemoryEntry(val)
		return unmarshalErr
	})
	return entry, err
}

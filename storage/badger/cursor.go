package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/storage"
)

// CursorRepository implements storage.CursorRepository for BadgerDB.
type CursorRepository struct {
	backend *Backend
}

var _ storage.CursorRepository = (*CursorRepository)(nil)

// NewCursorRepository creates a new CursorRepository.
func NewCursorRepository(backend *Backend) *CursorRepository {
	return &CursorRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *CursorRepository) Close() error {
	return nil
}

// GetCursor retrieves a user's study cursor.
func (r *CursorRepository) GetCursor(ctx context.Context, userID string) (*core.Cursor, error) {
	var result *core.Cursor
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCursorKey(userID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return core.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalCursor(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// PutCursor inserts or replaces a user's study cursor.
func (r *CursorRepository) PutCursor(ctx context.Context, cursor *core.Cursor) error {
	if cursor.UserID == "" {
		return core.ErrEmptyKey
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeCursorKey(cursor.UserID), storage.MarshalCursor(cursor)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

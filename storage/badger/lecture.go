package badger

import (
	"bytes"
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/storage"
)

// LectureRepository implements storage.LectureRepository for BadgerDB.
type LectureRepository struct {
	backend *Backend
}

var _ storage.LectureRepository = (*LectureRepository)(nil)

// NewLectureRepository creates a new LectureRepository.
func NewLectureRepository(backend *Backend) *LectureRepository {
	return &LectureRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *LectureRepository) Close() error {
	return nil
}

// UpsertLecture inserts or replaces a lecture record and keeps the
// curriculum order index in sync.
func (r *LectureRepository) UpsertLecture(ctx context.Context, lecture *core.Lecture) error {
	if err := core.ValidateLecture(lecture); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeLectureKey(lecture.Key)

		// Drop the old order index entry if the position changed
		old, err := readLecture(tx, key)
		if err != nil {
			return err
		}
		if old != nil && (old.Module != lecture.Module || old.Day != lecture.Day || old.Order != lecture.Order) {
			if err := tx.Delete(makeLectureOrderKey(old.Module, old.Day, old.Order)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, storage.MarshalLecture(lecture)); err != nil {
			return err
		}

		orderKey := makeLectureOrderKey(lecture.Module, lecture.Day, lecture.Order)
		if err := tx.Set(orderKey, []byte(lecture.Key)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// GetLecture retrieves a lecture by key.
func (r *LectureRepository) GetLecture(ctx context.Context, key string) (*core.Lecture, error) {
	var result *core.Lecture
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readLecture(tx, makeLectureKey(key))
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

// ListLectures returns all lectures in (module, day, order) order.
func (r *LectureRepository) ListLectures(ctx context.Context) ([]*core.Lecture, error) {
	var results []*core.Lecture
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scanOrder(tx, nil, func(lecture *core.Lecture) (bool, error) {
			results = append(results, lecture)
			return true, nil
		})
	}, false)
	return results, err
}

// FirstLecture returns the first lecture in curriculum order for the given
// speaker type (zero matches any).
func (r *LectureRepository) FirstLecture(ctx context.Context, speaker core.SpeakerType) (*core.Lecture, error) {
	var result *core.Lecture
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		err := r.scanOrder(tx, nil, func(lecture *core.Lecture) (bool, error) {
			if speaker == 0 || lecture.Speaker == speaker {
				result = lecture
				return false, nil
			}
			return true, nil
		})
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

// NextLecture returns the lecture strictly after the given position,
// restricted to the given speaker type (zero matches any).
func (r *LectureRepository) NextLecture(ctx context.Context, after *core.Lecture, speaker core.SpeakerType) (*core.Lecture, error) {
	afterKey := makeLectureOrderKey(after.Module, after.Day, after.Order)

	var result *core.Lecture
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		err := r.scanOrder(tx, afterKey, func(lecture *core.Lecture) (bool, error) {
			if lecture.Key == after.Key {
				return true, nil
			}
			if speaker == 0 || lecture.Speaker == speaker {
				result = lecture
				return false, nil
			}
			return true, nil
		})
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

// scanOrder walks the curriculum order index from seek (or the start when
// seek is nil), resolving each entry to its lecture record. The visit
// callback returns false to stop early.
func (r *LectureRepository) scanOrder(tx *badger.Txn, seek []byte, visit func(*core.Lecture) (bool, error)) error {
	prefix := []byte(lectureOrderPrefix + ":")
	if seek == nil {
		seek = prefix
	}

	iter := tx.NewIterator(badger.DefaultIteratorOptions)
	defer iter.Close()

	for iter.Seek(seek); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		if !bytes.HasPrefix(key, prefix) {
			break
		}

		var lectureKey string
		if err := iter.Item().Value(func(val []byte) error {
			lectureKey = string(val)
			return nil
		}); err != nil {
			return err
		}

		lecture, err := readLecture(tx, makeLectureKey(lectureKey))
		if err != nil {
			return err
		}
		if lecture == nil {
			continue
		}

		cont, err := visit(lecture)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// readLecture reads a lecture record from the transaction.
func readLecture(tx *badger.Txn, key []byte) (*core.Lecture, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var lecture *core.Lecture
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		lecture, unmarshalErr = storage.UnmarshalLecture(val)
		return unmarshalErr
	})
	return lecture, err
}

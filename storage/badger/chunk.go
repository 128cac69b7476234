package badger

import (
	"bytes"
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *ChunkRepository) Close() error {
	return nil
}

// ReplaceLectureChunks atomically swaps the full chunk set of a lecture.
// Old chunks and index entries are deleted and the new set is inserted in
// a single transaction.
func (r *ChunkRepository) ReplaceLectureChunks(ctx context.Context, lectureKey string, chunks []*core.Chunk) error {
	if lectureKey == "" {
		return core.ErrEmptyKey
	}
	for _, chunk := range chunks {
		if chunk.LectureKey != lectureKey {
			return core.ErrInvalidChunk
		}
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		// Delete the old chunk set via the per-lecture index
		oldKeys, err := r.lectureChunkKeys(tx, lectureKey)
		if err != nil {
			return err
		}
		for _, chunkKey := range oldKeys {
			if err := tx.Delete(makeChunkKey(chunkKey)); err != nil {
				return err
			}
		}
		prefix := makePartialChunkLectureKey(lectureKey)
		if err := deleteByPrefix(tx, prefix); err != nil {
			return err
		}

		// Insert the new set
		for _, chunk := range chunks {
			if err := tx.Set(makeChunkKey(chunk.Key), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			indexKey := makeChunkLectureKey(lectureKey, chunk.Sequence)
			if err := tx.Set(indexKey, []byte(chunk.Key)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// GetChunk retrieves a chunk by key.
func (r *ChunkRepository) GetChunk(ctx context.Context, key string) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(key))
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

// GetLectureChunks returns up to limit chunks of a lecture with sequence
// >= fromSequence, in ascending sequence order. limit <= 0 means no limit.
func (r *ChunkRepository) GetLectureChunks(ctx context.Context, lectureKey string, fromSequence, limit int) ([]*core.Chunk, error) {
	if fromSequence < 0 {
		fromSequence = 0
	}

	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialChunkLectureKey(lectureKey)
		seek := makeChunkLectureKey(lectureKey, fromSequence)

		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(seek); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}
			if limit > 0 && len(results) >= limit {
				break
			}

			var chunkKey string
			if err := iter.Item().Value(func(val []byte) error {
				chunkKey = string(val)
				return nil
			}); err != nil {
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(chunkKey))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)

	if results == nil {
		results = []*core.Chunk{}
	}
	return results, err
}

// CountLectureChunks returns the number of stored chunks for a lecture.
func (r *ChunkRepository) CountLectureChunks(ctx context.Context, lectureKey string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialChunkLectureKey(lectureKey)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar scans every embedded chunk matching the filter and ranks by
// descending cosine similarity to the query vector.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, filter core.ChunkFilter, limit int) ([]*core.ScoredChunk, error) {
	var results []*core.ScoredChunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}
			if !filter.Matches(chunk) {
				continue
			}

			similarity := dotProduct(vector, chunk.Vector)
			results = append(results, &core.ScoredChunk{
				Chunk:      chunk,
				Similarity: similarity,
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ScoredChunk) int {
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
		results = []*core.ScoredChunk{}
	}
	return results, nil
}

// Helper methods

// lectureChunkKeys collects the chunk keys of one lecture from the index.
func (r *ChunkRepository) lectureChunkKeys(tx *badger.Txn, lectureKey string) ([]string, error) {
	prefix := makePartialChunkLectureKey(lectureKey)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys []string
	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := iter.Item().Value(func(val []byte) error {
			keys = append(keys, string(val))
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// deleteByPrefix removes every key with the given prefix inside the
// transaction.
func deleteByPrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	iter := tx.NewIterator(opts)
	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// readChunk reads a chunk record from the transaction.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}

package storage

import (
	"context"

	"github.com/praxislab/lectern/core"
)

// LectureRepository manages the lecture catalog and its curriculum order.
// Implementations must be thread-safe.
type LectureRepository interface {
	// UpsertLecture inserts or replaces a lecture record.
	UpsertLecture(ctx context.Context, lecture *core.Lecture) error

	// GetLecture retrieves a lecture by key.
	// Returns core.ErrNotFound if it does not exist.
	GetLecture(ctx context.Context, key string) (*core.Lecture, error)

	// ListLectures returns all lectures in (module, day, order) order.
	ListLectures(ctx context.Context) ([]*core.Lecture, error)

	// FirstLecture returns the curriculum's first lecture for the given
	// speaker type (zero matches any speaker type).
	// Returns core.ErrNotFound when the curriculum is empty.
	FirstLecture(ctx context.Context, speaker core.SpeakerType) (*core.Lecture, error)

	// NextLecture returns the lecture strictly after the given position in
	// (module, day, order) order, restricted to the given speaker type
	// (zero matches any). Returns core.ErrNotFound at the end of the
	// curriculum.
	NextLecture(ctx context.Context, after *core.Lecture, speaker core.SpeakerType) (*core.Lecture, error)

	// Close releases resources held by the repository.
	Close() error
}

// ChunkRepository manages the course-chunk collection.
// Implementations must be thread-safe.
type ChunkRepository interface {
	// ReplaceLectureChunks atomically replaces every chunk of a lecture:
	// old chunks are deleted and new ones inserted inside one transaction,
	// so readers observe either the full old set or the full new set.
	ReplaceLectureChunks(ctx context.Context, lectureKey string, chunks []*core.Chunk) error

	// GetChunk retrieves a chunk by key.
	// Returns core.ErrNotFound if it does not exist.
	GetChunk(ctx context.Context, key string) (*core.Chunk, error)

	// GetLectureChunks returns up to limit chunks of a lecture whose
	// sequence is >= fromSequence, in ascending sequence order.
	// limit <= 0 means no limit.
	GetLectureChunks(ctx context.Context, lectureKey string, fromSequence, limit int) ([]*core.Chunk, error)

	// CountLectureChunks returns the number of stored chunks for a lecture.
	CountLectureChunks(ctx context.Context, lectureKey string) (int, error)

	// FindSimilar returns up to limit chunks matching the filter, ranked by
	// descending cosine similarity to the query vector.
	FindSimilar(ctx context.Context, vector []float32, filter core.ChunkFilter, limit int) ([]*core.ScoredChunk, error)

	// Close releases resources held by the repository.
	Close() error
}

// MemoryRepository manages the per-user decision-memory collection.
// Entries are append-only: updates happen by inserting a successor and
// flipping the predecessor's status, never by rewriting text.
// Implementations must be thread-safe.
type MemoryRepository interface {
	// InsertEntry adds a new entry, setting CreatedAt/UpdatedAt.
	InsertEntry(ctx context.Context, entry *core.MemoryEntry) (*core.MemoryEntry, error)

	// GetEntry retrieves an entry by ID.
	// Returns core.ErrNotFound if it does not exist.
	GetEntry(ctx context.Context, id string) (*core.MemoryEntry, error)

	// Supersede atomically inserts the successor entry and flips the entry
	// identified by oldID to superseded, in one transaction.
	// Returns core.ErrNotFound if oldID does not exist and core.ErrConflict
	// if it is already superseded.
	Supersede(ctx context.Context, oldID string, successor *core.MemoryEntry) (*core.MemoryEntry, error)

	// ListEntries returns a user's entries with the given status, ordered
	// by creation time (oldest first, or newest first when newestFirst is
	// set). A zero status lists all entries.
	ListEntries(ctx context.Context, userID string, status core.MemoryStatus, newestFirst bool) ([]*core.MemoryEntry, error)

	// FindSimilar returns up to limit ACTIVE entries owned by the user,
	// ranked by descending cosine similarity to the query vector.
	FindSimilar(ctx context.Context, userID string, vector []float32, limit int) ([]*core.ScoredEntry, error)

	// Close releases resources held by the repository.
	Close() error
}

// CursorRepository manages per-user study progress cursors.
// Implementations must be thread-safe.
type CursorRepository interface {
	// GetCursor retrieves a user's cursor.
	// Returns core.ErrNotFound if the user has no cursor yet.
	GetCursor(ctx context.Context, userID string) (*core.Cursor, error)

	// PutCursor inserts or replaces a user's cursor.
	PutCursor(ctx context.Context, cursor *core.Cursor) error

	// Close releases resources held by the repository.
	Close() error
}

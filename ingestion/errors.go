package ingestion

import "errors"

var (
	// ErrLectureRepositoryRequired is returned when a lecture repository is not provided.
	ErrLectureRepositoryRequired = errors.New("lecture repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrForceRequired is returned when Commit is called without the force flag.
	ErrForceRequired = errors.New("commit requires force confirmation")

	// ErrEmptyScope is returned when the scope matches no manifest lecture.
	ErrEmptyScope = errors.New("scope matches no lecture")
)

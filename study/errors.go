package study

import "errors"

var (
	// ErrLectureRepositoryRequired is returned when a lecture repository is not provided.
	ErrLectureRepositoryRequired = errors.New("lecture repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrCursorRepositoryRequired is returned when a cursor repository is not provided.
	ErrCursorRepositoryRequired = errors.New("cursor repository required")

	// ErrVersionerRequired is returned when a memory versioner is not provided.
	ErrVersionerRequired = errors.New("memory versioner required")

	// ErrEmptyCurriculum is returned when no methodology lecture exists.
	ErrEmptyCurriculum = errors.New("curriculum has no methodology lecture")
)

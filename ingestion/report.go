package ingestion

import (
	"github.com/praxislab/lectern/chunker"
	"github.com/praxislab/lectern/core"
)

// Scope restricts an ingestion run to part of the manifest.
// A zero scope covers every lecture.
type Scope struct {
	// LectureKey restricts the run to a single lecture when non-empty.
	LectureKey string

	// Module restricts the run to one module when positive.
	Module int
}

// Matches reports whether the lecture falls inside the scope.
func (s Scope) Matches(lecture *core.Lecture) bool {
	if s.LectureKey != "" && lecture.Key != s.LectureKey {
		return false
	}
	if s.Module > 0 && lecture.Module != s.Module {
		return false
	}
	return true
}

// IsZero reports whether the scope covers the whole manifest.
func (s Scope) IsZero() bool {
	return s.LectureKey == "" && s.Module == 0
}

// LecturePreview describes what ingesting one lecture would do, without
// touching storage or the embedding service.
type LecturePreview struct {
	Lecture *core.Lecture
	Stats   chunker.Stats

	// Existing is the number of chunks currently stored for this lecture.
	// They would be replaced by a commit.
	Existing int
}

// Preview aggregates per-lecture previews for a dry run.
type Preview struct {
	Lectures    []*LecturePreview
	TotalChunks int
}

// LectureResult records the outcome of committing one lecture.
type LectureResult struct {
	Lecture  *core.Lecture
	Inserted int
	Replaced int
}

// LectureFailure records a lecture whose ingestion failed. The previously
// stored chunks of that lecture remain untouched.
type LectureFailure struct {
	LectureKey string
	Err        error
}

// Result aggregates the outcome of a commit run. Failures are per-lecture:
// one failing lecture never rolls back the others.
type Result struct {
	Ingested []*LectureResult
	Failed   []LectureFailure
}

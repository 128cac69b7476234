package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a fixed-width internal identifier derived from textual keys.
// It is used as a key component in storage backends that want fixed-length,
// collision-resistant identifiers instead of raw strings.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
// Identical input always produces an identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SpeakerType classifies the source of a lecture transcript.
type SpeakerType int

const (
	// SpeakerMethodology marks core curriculum lectures. Only these
	// participate in study progression.
	SpeakerMethodology SpeakerType = iota + 1
	// SpeakerCaseStudy marks guest case-study lectures. These are
	// retrieval-only.
	SpeakerCaseStudy
)

// String returns the manifest representation of the speaker type.
func (s SpeakerType) String() string {
	switch s {
	case SpeakerMethodology:
		return "methodology"
	case SpeakerCaseStudy:
		return "case_study"
	default:
		return fmt.Sprintf("speaker(%d)", int(s))
	}
}

// ParseSpeakerType parses a manifest speaker type value.
func ParseSpeakerType(v string) (SpeakerType, error) {
	switch v {
	case "methodology":
		return SpeakerMethodology, nil
	case "case_study":
		return SpeakerCaseStudy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpeakerType, v)
	}
}

// ContentCategory classifies what a chunk of transcript contains.
type ContentCategory int

const (
	// CategoryTheory is the default when no marker matches.
	CategoryTheory ContentCategory = iota + 1
	CategoryAssignment
	CategoryExample
	CategoryTool
)

// String returns the stored representation of the content category.
func (c ContentCategory) String() string {
	switch c {
	case CategoryTheory:
		return "theory"
	case CategoryAssignment:
		return "assignment"
	case CategoryExample:
		return "example"
	case CategoryTool:
		return "tool"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseContentCategory parses a stored content category value.
func ParseContentCategory(v string) (ContentCategory, error) {
	switch v {
	case "theory":
		return CategoryTheory, nil
	case "assignment":
		return CategoryAssignment, nil
	case "example":
		return CategoryExample, nil
	case "tool":
		return CategoryTool, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentCategory, v)
	}
}

// Lecture describes one ingested transcript. Lectures are created from
// manifest entries and are immutable once ingested except by full
// re-ingestion.
type Lecture struct {
	Key         string // stable textual key, unique across the curriculum
	Module      int
	Day         int
	Order       int // order within the day
	Title       string
	SpeakerName string
	Speaker     SpeakerType
	SourceFile  string
}

// Chunk is the atomic unit of retrieval: a bounded span of transcript text
// stored with its own embedding. Sequence numbers are 0-based, unique and
// contiguous within a lecture.
type Chunk struct {
	Key         string // derived: "<lectureKey>-%04d" of Sequence
	LectureKey  string
	Module      int // denormalized from the lecture for filtering
	Day         int
	Speaker     SpeakerType
	Category    ContentCategory
	Sequence    int
	ParentTopic string // lecture title
	Text        string
	Vector      []float32
	Metadata    map[string]string
}

// ChunkKey derives the stable chunk key from its lecture and position.
func ChunkKey(lectureKey string, sequence int) string {
	return fmt.Sprintf("%s-%04d", lectureKey, sequence)
}

// MemoryKind classifies a decision-memory entry.
type MemoryKind int

const (
	KindDecision MemoryKind = iota + 1
	KindCompanyContext
	KindNote
	KindModuleSummary
	KindArchitectPlan
)

// String returns the stored representation of the memory kind.
func (k MemoryKind) String() string {
	switch k {
	case KindDecision:
		return "decision"
	case KindCompanyContext:
		return "company_context"
	case KindNote:
		return "note"
	case KindModuleSummary:
		return "module_summary"
	case KindArchitectPlan:
		return "architect_plan"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseMemoryKind parses a stored memory kind value.
func ParseMemoryKind(v string) (MemoryKind, error) {
	switch v {
	case "decision":
		return KindDecision, nil
	case "company_context":
		return KindCompanyContext, nil
	case "note":
		return KindNote, nil
	case "module_summary":
		return KindModuleSummary, nil
	case "architect_plan":
		return KindArchitectPlan, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMemoryKind, v)
	}
}

// MemoryStatus is the lifecycle state of a memory entry. The transition is
// strictly one-directional: active entries become superseded, never back.
type MemoryStatus int

const (
	StatusActive MemoryStatus = iota + 1
	StatusSuperseded
)

// String returns the stored representation of the status.
func (s MemoryStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusSuperseded:
		return "superseded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MemoryEntry is one record in the per-user append-only decision log.
// Refinement never mutates history: it inserts a successor and flips the
// predecessor to superseded, forming a version chain via Supersedes.
type MemoryEntry struct {
	ID              string // ULID, sortable by creation time
	UserID          string
	Kind            MemoryKind
	Status          MemoryStatus
	Module          int    // optional linkage, 0 when unset
	Day             int    // optional linkage, 0 when unset
	LectureKey      string // optional linkage
	Topic           string // optional linkage
	Question        string // the question that prompted the entry, if any
	RawText         string
	NormalizedText  string   // optional condensed form
	SourceChunkKeys []string // chunk identities that grounded the entry; broken links are tolerated
	Supersedes      string   // ID of the entry this one refined, empty for originals
	Vector          []float32
	Metadata        map[string]string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Text returns the normalized text when present, the raw text otherwise.
func (e *MemoryEntry) Text() string {
	if e.NormalizedText != "" {
		return e.NormalizedText
	}
	return e.RawText
}

// Mode distinguishes the two interaction modes a cursor can be in.
type Mode int

const (
	ModeStudy Mode = iota + 1
	ModeAsk
)

// String returns the stored representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStudy:
		return "study"
	case ModeAsk:
		return "ask"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Cursor is the per-user pointer into curriculum order. Sequence holds the
// next chunk sequence to deliver within LectureKey, so a fresh cursor at
// (module 1, day 1, sequence 0) delivers the very first chunk.
type Cursor struct {
	UserID     string
	Mode       Mode
	Module     int
	Day        int
	LectureKey string
	Sequence   int

	// Completed marks the terminal state: every methodology chunk has been
	// delivered. It is re-entrant and only cleared by a fresh Start.
	Completed bool
}

// DefaultCursor returns the lazily-created initial cursor for a user.
func DefaultCursor(userID string) *Cursor {
	return &Cursor{
		UserID:   userID,
		Mode:     ModeStudy,
		Module:   1,
		Day:      1,
		Sequence: 0,
	}
}

// ScoredChunk is a course chunk paired with its retrieval similarity.
type ScoredChunk struct {
	Chunk      *Chunk
	Similarity float32
}

// ScoredEntry is a memory entry paired with its retrieval similarity.
type ScoredEntry struct {
	Entry      *MemoryEntry
	Similarity float32
}

// ChunkFilter is the closed predicate language for scoping course-chunk
// retrieval: key equality over a fixed set of fields. Zero values match
// everything.
type ChunkFilter struct {
	LectureKey string
	Module     int
	Day        int
	Speaker    SpeakerType
	Category   ContentCategory
}

// Matches reports whether a chunk satisfies every set field of the filter.
func (f ChunkFilter) Matches(c *Chunk) bool {
	if f.LectureKey != "" && c.LectureKey != f.LectureKey {
		return false
	}
	if f.Module != 0 && c.Module != f.Module {
		return false
	}
	if f.Day != 0 && c.Day != f.Day {
		return false
	}
	if f.Speaker != 0 && c.Speaker != f.Speaker {
		return false
	}
	if f.Category != 0 && c.Category != f.Category {
		return false
	}
	return true
}

// IsZero reports whether the filter matches everything.
func (f ChunkFilter) IsZero() bool {
	return f == ChunkFilter{}
}

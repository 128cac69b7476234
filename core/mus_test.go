package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLectureRoundTrip(t *testing.T) {
	lecture := Lecture{
		Key:         "m2-d3-capacity",
		Module:      2,
		Day:         3,
		Order:       1,
		Title:       "Capacity Planning",
		SpeakerName: "A. Petrov",
		Speaker:     SpeakerMethodology,
		SourceFile:  "m2/d3/capacity.txt",
	}

	buf := make([]byte, LectureMUS.Size(lecture))
	n := LectureMUS.Marshal(lecture, buf)
	assert.Equal(t, len(buf), n)

	got, n, err := LectureMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, lecture, got)
}

func TestChunkRoundTrip(t *testing.T) {
	chunk := Chunk{
		Key:         ChunkKey("m2-d3-capacity", 4),
		LectureKey:  "m2-d3-capacity",
		Module:      2,
		Day:         3,
		Speaker:     SpeakerMethodology,
		Category:    CategoryAssignment,
		Sequence:    4,
		ParentTopic: "Capacity Planning",
		Text:        "Your task: estimate peak load for the checkout path.",
		Vector:      []float32{0.25, -0.5, 0.125},
		Metadata:    map[string]string{"speaker_name": "A. Petrov", "source_file": "m2/d3/capacity.txt"},
	}

	buf := make([]byte, ChunkMUS.Size(chunk))
	n := ChunkMUS.Marshal(chunk, buf)
	assert.Equal(t, len(buf), n)

	got, n, err := ChunkMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, chunk, got)
}

func TestMemoryEntryRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	entry := MemoryEntry{
		ID:              "01J9ZXEXAMPLE0000000000000",
		UserID:          "alice",
		Kind:            KindDecision,
		Status:          StatusSuperseded,
		Module:          2,
		Day:             3,
		LectureKey:      "m2-d3-capacity",
		Topic:           "capacity",
		Question:        "How much headroom do we need?",
		RawText:         "we keep 40% headroom",
		NormalizedText:  "we keep 40% headroom",
		SourceChunkKeys: []string{"m2-d3-capacity-0001", "m2-d3-capacity-0002"},
		Supersedes:      "01J9ZXPREDECESSOR000000000",
		Vector:          []float32{1, 0, 0},
		Metadata:        map[string]string{"origin": "study"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	buf := make([]byte, MemoryEntryMUS.Size(entry))
	n := MemoryEntryMUS.Marshal(entry, buf)
	assert.Equal(t, len(buf), n)

	got, n, err := MemoryEntryMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, entry, got)
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{
		UserID:     "alice",
		Mode:       ModeStudy,
		Module:     3,
		Day:        2,
		LectureKey: "m3-d2-teams",
		Sequence:   11,
		Completed:  true,
	}

	buf := make([]byte, CursorMUS.Size(cursor))
	n := CursorMUS.Marshal(cursor, buf)
	assert.Equal(t, len(buf), n)

	got, n, err := CursorMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, cursor, got)
}

func TestUnmarshalTruncated(t *testing.T) {
	lecture := Lecture{
		Key: "m1-d1-a", Module: 1, Day: 1, Order: 1,
		Title: "A", SpeakerName: "B", Speaker: SpeakerCaseStudy, SourceFile: "f",
	}
	buf := make([]byte, LectureMUS.Size(lecture))
	LectureMUS.Marshal(lecture, buf)

	_, _, err := LectureMUS.Unmarshal(buf[:3])
	assert.Error(t, err)
}

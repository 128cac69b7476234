package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContentDeterministic(t *testing.T) {
	a := IDFromContent("m1-d1-intro")
	b := IDFromContent("m1-d1-intro")
	c := IDFromContent("m1-d1-other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotZero(t, a)
}

func TestChunkKeyFormat(t *testing.T) {
	assert.Equal(t, "m1-d1-intro-0000", ChunkKey("m1-d1-intro", 0))
	assert.Equal(t, "m1-d1-intro-0007", ChunkKey("m1-d1-intro", 7))
	assert.Equal(t, "m2-d3-scaling-0123", ChunkKey("m2-d3-scaling", 123))
}

func TestParseSpeakerType(t *testing.T) {
	st, err := ParseSpeakerType("methodology")
	require.NoError(t, err)
	assert.Equal(t, SpeakerMethodology, st)

	st, err = ParseSpeakerType("case_study")
	require.NoError(t, err)
	assert.Equal(t, SpeakerCaseStudy, st)

	_, err = ParseSpeakerType("guest")
	assert.ErrorIs(t, err, ErrInvalidSpeakerType)
}

func TestParseContentCategory(t *testing.T) {
	for _, name := range []string{"theory", "assignment", "example", "tool"} {
		category, err := ParseContentCategory(name)
		require.NoError(t, err)
		assert.Equal(t, name, category.String())
	}

	_, err := ParseContentCategory("quiz")
	assert.ErrorIs(t, err, ErrInvalidContentCategory)
}

func TestParseMemoryKind(t *testing.T) {
	for _, name := range []string{"decision", "company_context", "note", "module_summary", "architect_plan"} {
		kind, err := ParseMemoryKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, kind.String())
	}

	_, err := ParseMemoryKind("journal")
	assert.ErrorIs(t, err, ErrInvalidMemoryKind)
}

func TestMemoryEntryText(t *testing.T) {
	entry := &MemoryEntry{RawText: "raw", NormalizedText: "normalized"}
	assert.Equal(t, "normalized", entry.Text())

	entry.NormalizedText = ""
	assert.Equal(t, "raw", entry.Text())
}

func TestChunkFilterMatches(t *testing.T) {
	chunk := &Chunk{
		Key:        ChunkKey("m2-d1-pricing", 3),
		LectureKey: "m2-d1-pricing",
		Module:     2,
		Day:        1,
		Speaker:    SpeakerMethodology,
		Category:   CategoryAssignment,
		Sequence:   3,
	}

	tests := []struct {
		name   string
		filter ChunkFilter
		want   bool
	}{
		{"zero filter matches everything", ChunkFilter{}, true},
		{"module match", ChunkFilter{Module: 2}, true},
		{"module mismatch", ChunkFilter{Module: 3}, false},
		{"day match", ChunkFilter{Day: 1}, true},
		{"day mismatch", ChunkFilter{Day: 2}, false},
		{"lecture match", ChunkFilter{LectureKey: "m2-d1-pricing"}, true},
		{"lecture mismatch", ChunkFilter{LectureKey: "m2-d1-other"}, false},
		{"speaker match", ChunkFilter{Speaker: SpeakerMethodology}, true},
		{"speaker mismatch", ChunkFilter{Speaker: SpeakerCaseStudy}, false},
		{"category match", ChunkFilter{Category: CategoryAssignment}, true},
		{"category mismatch", ChunkFilter{Category: CategoryTheory}, false},
		{"conjunction", ChunkFilter{Module: 2, Day: 1, Category: CategoryAssignment}, true},
		{"conjunction with one miss", ChunkFilter{Module: 2, Day: 2, Category: CategoryAssignment}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(chunk))
		})
	}
}

func TestDefaultCursor(t *testing.T) {
	cursor := DefaultCursor("alice")
	assert.Equal(t, "alice", cursor.UserID)
	assert.Equal(t, ModeStudy, cursor.Mode)
	assert.Equal(t, 1, cursor.Module)
	assert.Equal(t, 1, cursor.Day)
	assert.Equal(t, 0, cursor.Sequence)
	assert.False(t, cursor.Completed)
}

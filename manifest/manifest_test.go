package manifest

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/praxislab/lectern/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestHeader = "lecture_id,module,day,lecture_order,lecture_title,speaker_name,speaker_type,source_file\n"

func courseFiles() fstest.MapFS {
	return fstest.MapFS{
		"m1/d1/intro.txt":    {Data: []byte("Welcome to the course. This module covers fundamentals.")},
		"m1/d1/teams.txt":    {Data: []byte("Team topologies and ownership boundaries.")},
		"m1/d2/casestud.txt": {Data: []byte("A fintech told us how they migrated.")},
		"m1/d2/empty.txt":    {Data: []byte("")},
	}
}

func TestLoad(t *testing.T) {
	csv := manifestHeader +
		"m1-d1-intro,1,1,1,Introduction,J. Ram,methodology,m1/d1/intro.txt\n" +
		"m1-d1-teams,1,1,2,Teams,J. Ram,methodology,m1/d1/teams.txt\n"

	entries, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "m1-d1-intro", entries[0].LectureKey)
	assert.Equal(t, "1", entries[0].Module)
	assert.Equal(t, "Introduction", entries[0].Title)
	assert.Equal(t, 2, entries[0].Line)
	assert.Equal(t, 3, entries[1].Line)
}

func TestLoadColumnOrderIrrelevant(t *testing.T) {
	csv := "source_file,lecture_id,lecture_title,speaker_name,speaker_type,module,day,lecture_order\n" +
		"m1/d1/intro.txt,m1-d1-intro,Introduction,J. Ram,methodology,1,1,1\n"

	entries, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "m1-d1-intro", entries[0].LectureKey)
	assert.Equal(t, "m1/d1/intro.txt", entries[0].SourceFile)
}

func TestLoadMissingColumn(t *testing.T) {
	csv := "lecture_id,module,day\nm1-d1-intro,1,1\n"
	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadEmptyManifest(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	assert.Error(t, err)
}

func TestValidateHappyPath(t *testing.T) {
	entries := []Entry{
		{LectureKey: "m1-d1-intro", Module: "1", Day: "1", Order: "1", Title: "Introduction",
			SpeakerName: "J. Ram", SpeakerType: "methodology", SourceFile: "m1/d1/intro.txt", Line: 2},
		{LectureKey: "m1-d2-casestud", Module: "1", Day: "2", Order: "1", Title: "Fintech Case",
			SpeakerName: "Guest", SpeakerType: "case_study", SourceFile: "m1/d2/casestud.txt", Line: 3},
	}

	result := Validate(entries, courseFiles())
	require.True(t, result.Valid(), "violations: %v", result.Violations)
	require.NoError(t, result.Err())
	require.Len(t, result.Lectures, 2)

	assert.Equal(t, core.SpeakerMethodology, result.Lectures[0].Speaker)
	assert.Equal(t, core.SpeakerCaseStudy, result.Lectures[1].Speaker)
	assert.Equal(t, 2, result.Lectures[1].Day)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	entries := []Entry{
		{LectureKey: "m1-d1-intro", Module: "0", Day: "x", Order: "1", Title: "",
			SpeakerName: "J. Ram", SpeakerType: "guest", SourceFile: "m1/d1/missing.txt", Line: 2},
	}

	result := Validate(entries, courseFiles())
	require.False(t, result.Valid())
	assert.ErrorIs(t, result.Err(), core.ErrValidation)

	// module not positive, day not integer, missing title, bad speaker,
	// missing file: every problem is reported, not just the first.
	assert.Len(t, result.Violations, 5)
	assert.Nil(t, result.Lectures)
}

func TestValidateDuplicateKeys(t *testing.T) {
	entries := []Entry{
		{LectureKey: "m1-d1-intro", Module: "1", Day: "1", Order: "1", Title: "A",
			SpeakerName: "S", SpeakerType: "methodology", SourceFile: "m1/d1/intro.txt", Line: 2},
		{LectureKey: "m1-d1-intro", Module: "1", Day: "1", Order: "2", Title: "B",
			SpeakerName: "S", SpeakerType: "methodology", SourceFile: "m1/d1/teams.txt", Line: 3},
	}

	result := Validate(entries, courseFiles())
	require.False(t, result.Valid())
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "lecture_id", result.Violations[0].Field)
	assert.Contains(t, result.Violations[0].Reason, "duplicate")
}

func TestValidateDuplicatePosition(t *testing.T) {
	entries := []Entry{
		{LectureKey: "m1-d1-intro", Module: "1", Day: "1", Order: "1", Title: "A",
			SpeakerName: "S", SpeakerType: "methodology", SourceFile: "m1/d1/intro.txt", Line: 2},
		{LectureKey: "m1-d1-teams", Module: "1", Day: "1", Order: "1", Title: "B",
			SpeakerName: "S", SpeakerType: "methodology", SourceFile: "m1/d1/teams.txt", Line: 3},
	}

	result := Validate(entries, courseFiles())
	require.False(t, result.Valid())
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "lecture_order", result.Violations[0].Field)
	assert.Contains(t, result.Violations[0].Reason, "already used by")
	assert.Contains(t, result.Violations[0].Reason, "m1-d1-intro")
}

func TestValidateBadKeyShape(t *testing.T) {
	entries := []Entry{
		{LectureKey: "M1 Intro!", Module: "1", Day: "1", Order: "1", Title: "A",
			SpeakerName: "S", SpeakerType: "methodology", SourceFile: "m1/d1/intro.txt", Line: 2},
	}

	result := Validate(entries, courseFiles())
	require.False(t, result.Valid())
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Reason, "invalid characters")
}

func TestValidateEmptySourceFile(t *testing.T) {
	entries := []Entry{
		{LectureKey: "m1-d2-empty", Module: "1", Day: "2", Order: "1", Title: "Empty",
			SpeakerName: "S", SpeakerType: "methodology", SourceFile: "m1/d2/empty.txt", Line: 2},
	}

	result := Validate(entries, courseFiles())
	require.False(t, result.Valid())
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "source_file", result.Violations[0].Field)
	assert.Contains(t, result.Violations[0].Reason, "empty")
}

func TestValidateNoEntries(t *testing.T) {
	result := Validate(nil, courseFiles())
	assert.False(t, result.Valid())
}

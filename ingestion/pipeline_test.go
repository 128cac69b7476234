package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/praxislab/lectern/ai/mock"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCourse lays out a manifest and transcript files in a temp dir and
// returns the manifest path and course dir.
func writeCourse(t *testing.T, transcripts map[string]string) (string, string) {
	t.Helper()
	dir := t.TempDir()

	var sb strings.Builder
	sb.WriteString("lecture_id,module,day,lecture_order,lecture_title,speaker_name,speaker_type,source_file\n")

	order := map[string]int{}
	for key, text := range transcripts {
		// Keys look like "m1-d1-intro"; derive module and day from them.
		var module, day int
		var slug string
		_, err := fmt.Sscanf(key, "m%d-d%d-%s", &module, &day, &slug)
		require.NoError(t, err)

		order[fmt.Sprintf("m%d-d%d", module, day)]++
		file := key + ".txt"
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(text), 0o644))

		sb.WriteString(fmt.Sprintf("%s,%d,%d,%d,Lecture %s,T. Speaker,methodology,%s\n",
			key, module, day, order[fmt.Sprintf("m%d-d%d", module, day)], key, file))
	}

	manifestPath := filepath.Join(dir, "manifest.csv")
	require.NoError(t, os.WriteFile(manifestPath, []byte(sb.String()), 0o644))
	return manifestPath, dir
}

func newTestPipeline(t *testing.T, embedder *mock.MockEmbedder) (*Pipeline, *badger.Repositories) {
	t.Helper()

	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	pipeline, err := NewPipeline(repos.Lectures, repos.Chunks, embedder, WithPoolSize(2))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, repos
}

func TestNewPipelineRequiresCollaborators(t *testing.T) {
	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewPipeline(nil, repos.Chunks, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrLectureRepositoryRequired)

	_, err = NewPipeline(repos.Lectures, nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewPipeline(repos.Lectures, repos.Chunks, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestPipelineValidate(t *testing.T) {
	pipeline, _ := newTestPipeline(t, mock.NewMockEmbedder())

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro": "Welcome to the course. We cover scope and outcomes.",
	})

	result, err := pipeline.Validate(context.Background(), manifestPath, courseDir)
	require.NoError(t, err)
	assert.True(t, result.Valid())
	assert.Len(t, result.Lectures, 1)
}

func TestPipelineValidateReportsViolations(t *testing.T) {
	pipeline, _ := newTestPipeline(t, mock.NewMockEmbedder())

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro": "Welcome to the course.",
	})
	// Break the manifest: point at a file that does not exist
	csv := "lecture_id,module,day,lecture_order,lecture_title,speaker_name,speaker_type,source_file\n" +
		"m1-d1-intro,1,1,1,Intro,T. Speaker,methodology,missing.txt\n"
	require.NoError(t, os.WriteFile(manifestPath, []byte(csv), 0o644))

	result, err := pipeline.Validate(context.Background(), manifestPath, courseDir)
	require.NoError(t, err)
	assert.False(t, result.Valid())
	assert.ErrorIs(t, result.Err(), core.ErrValidation)
}

func TestPipelinePreview(t *testing.T) {
	pipeline, _ := newTestPipeline(t, mock.NewMockEmbedder())

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro": "Welcome to the course. We cover scope and outcomes.",
		"m1-d2-teams": "Team topologies shape your architecture more than any diagram.",
	})

	preview, err := pipeline.Preview(context.Background(), manifestPath, courseDir, Scope{})
	require.NoError(t, err)
	require.Len(t, preview.Lectures, 2)
	assert.Equal(t, preview.TotalChunks, preview.Lectures[0].Stats.ChunkCount+preview.Lectures[1].Stats.ChunkCount)
	for _, lp := range preview.Lectures {
		assert.Zero(t, lp.Existing, "nothing ingested yet")
		assert.Greater(t, lp.Stats.ChunkCount, 0)
	}
}

func TestPipelinePreviewEmptyScope(t *testing.T) {
	pipeline, _ := newTestPipeline(t, mock.NewMockEmbedder())

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro": "Welcome to the course.",
	})

	_, err := pipeline.Preview(context.Background(), manifestPath, courseDir, Scope{LectureKey: "m9-d9-nope"})
	assert.ErrorIs(t, err, ErrEmptyScope)
}

func TestCommitRequiresForce(t *testing.T) {
	pipeline, _ := newTestPipeline(t, mock.NewMockEmbedder())

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro": "Welcome to the course.",
	})

	_, err := pipeline.Commit(context.Background(), manifestPath, courseDir, Scope{}, false)
	assert.ErrorIs(t, err, ErrForceRequired)
}

func TestCommitIngestsLectures(t *testing.T) {
	pipeline, repos := newTestPipeline(t, mock.NewMockEmbedder())
	ctx := context.Background()

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro": "Welcome to the course. We cover scope and outcomes.",
		"m1-d2-teams": "Team topologies shape your architecture more than any diagram.",
	})

	result, err := pipeline.Commit(ctx, manifestPath, courseDir, Scope{}, true)
	require.NoError(t, err)
	assert.Empty(t, result.Failed)
	require.Len(t, result.Ingested, 2)

	// Stable position ordering
	assert.Equal(t, "m1-d1-intro", result.Ingested[0].Lecture.Key)
	assert.Equal(t, "m1-d2-teams", result.Ingested[1].Lecture.Key)
	assert.Zero(t, result.Ingested[0].Replaced)

	lecture, err := repos.Lectures.GetLecture(ctx, "m1-d1-intro")
	require.NoError(t, err)
	assert.Equal(t, core.SpeakerMethodology, lecture.Speaker)

	chunks, err := repos.Chunks.GetLectureChunks(ctx, "m1-d1-intro", 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Vector, "committed chunks carry embeddings")
		assert.Equal(t, lecture.Title, chunk.ParentTopic)
		assert.Equal(t, "T. Speaker", chunk.Metadata["speaker_name"])
		assert.Equal(t, core.ChunkKey("m1-d1-intro", chunk.Sequence), chunk.Key)
	}
}

func TestCommitReingestReplaces(t *testing.T) {
	pipeline, repos := newTestPipeline(t, mock.NewMockEmbedder())
	ctx := context.Background()

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro": "Welcome to the course. We cover scope and outcomes.",
	})

	first, err := pipeline.Commit(ctx, manifestPath, courseDir, Scope{}, true)
	require.NoError(t, err)
	require.Len(t, first.Ingested, 1)

	second, err := pipeline.Commit(ctx, manifestPath, courseDir, Scope{}, true)
	require.NoError(t, err)
	require.Len(t, second.Ingested, 1)
	assert.Equal(t, first.Ingested[0].Inserted, second.Ingested[0].Replaced)

	// Same chunk identities both times: no duplicates accumulate
	count, err := repos.Chunks.CountLectureChunks(ctx, "m1-d1-intro")
	require.NoError(t, err)
	assert.Equal(t, second.Ingested[0].Inserted, count)
}

func TestCommitScope(t *testing.T) {
	pipeline, repos := newTestPipeline(t, mock.NewMockEmbedder())
	ctx := context.Background()

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro":   "Welcome to the course.",
		"m2-d1-scaling": "Scaling is a people problem before a systems problem.",
	})

	result, err := pipeline.Commit(ctx, manifestPath, courseDir, Scope{LectureKey: "m1-d1-intro"}, true)
	require.NoError(t, err)
	require.Len(t, result.Ingested, 1)
	assert.Equal(t, "m1-d1-intro", result.Ingested[0].Lecture.Key)

	// The out-of-scope lecture was never touched
	count, err := repos.Chunks.CountLectureChunks(ctx, "m2-d1-scaling")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCommitIsolatesLectureFailures(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	pipeline, repos := newTestPipeline(t, embedder)
	ctx := context.Background()

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro": "Welcome to the course. We cover scope and outcomes.",
		"m1-d2-teams": "POISON team topologies shape your architecture.",
	})

	// Seed m1-d2-teams so the failure has old chunks to preserve
	_, err := pipeline.Commit(ctx, manifestPath, courseDir, Scope{LectureKey: "m1-d2-teams"}, true)
	require.NoError(t, err)
	before, err := repos.Chunks.CountLectureChunks(ctx, "m1-d2-teams")
	require.NoError(t, err)
	require.Greater(t, before, 0)

	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		for _, text := range texts {
			if strings.Contains(text, "POISON") {
				return nil, errors.New("embedding backend down")
			}
		}
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = mock.DeterministicVector(text, 8)
		}
		return vectors, nil
	}

	result, err := pipeline.Commit(ctx, manifestPath, courseDir, Scope{}, true)
	require.NoError(t, err)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "m1-d2-teams", result.Failed[0].LectureKey)
	require.Len(t, result.Ingested, 1)
	assert.Equal(t, "m1-d1-intro", result.Ingested[0].Lecture.Key)

	// The failed lecture's previous chunks are intact
	after, err := repos.Chunks.CountLectureChunks(ctx, "m1-d2-teams")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCommitAbortsOnInvalidManifest(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	pipeline, repos := newTestPipeline(t, embedder)
	ctx := context.Background()

	manifestPath, courseDir := writeCourse(t, map[string]string{
		"m1-d1-intro": "Welcome to the course.",
	})
	csv := "lecture_id,module,day,lecture_order,lecture_title,speaker_name,speaker_type,source_file\n" +
		"m1-d1-intro,1,1,1,Intro,T. Speaker,methodology,m1-d1-intro.txt\n" +
		"m1-d1-bad,0,1,2,Bad,T. Speaker,methodology,m1-d1-intro.txt\n"
	require.NoError(t, os.WriteFile(manifestPath, []byte(csv), 0o644))

	_, err := pipeline.Commit(ctx, manifestPath, courseDir, Scope{}, true)
	assert.ErrorIs(t, err, core.ErrValidation)

	// Nothing was embedded or written
	assert.Zero(t, embedder.CallCount())
	count, err := repos.Chunks.CountLectureChunks(ctx, "m1-d1-intro")
	require.NoError(t, err)
	assert.Zero(t, count)
}

package retrieval

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/praxislab/lectern/ai"
	"github.com/praxislab/lectern/ai/mock"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChunks(t *testing.T, repos *badger.Repositories, lectureKey string, module int, texts []string) {
	t.Helper()
	chunks := make([]*core.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &core.Chunk{
			Key:         core.ChunkKey(lectureKey, i),
			LectureKey:  lectureKey,
			Module:      module,
			Day:         1,
			Speaker:     core.SpeakerMethodology,
			Category:    core.CategoryTheory,
			Sequence:    i,
			ParentTopic: "Lecture " + lectureKey,
			Text:        text,
			Vector:      mock.DeterministicVector(text, 8),
		}
	}
	require.NoError(t, repos.Chunks.ReplaceLectureChunks(context.Background(), lectureKey, chunks))
}

func seedMemory(t *testing.T, repos *badger.Repositories, userID string, texts []string) {
	t.Helper()
	for i, text := range texts {
		entry := &core.MemoryEntry{
			ID:      fmt.Sprintf("%02d-%s", i+1, userID),
			UserID:  userID,
			Kind:    core.KindDecision,
			Status:  core.StatusActive,
			RawText: text,
			Vector:  mock.DeterministicVector(text, 8),
		}
		_, err := repos.Memory.InsertEntry(context.Background(), entry)
		require.NoError(t, err)
	}
}

func newTestEngine(t *testing.T, generator *mock.MockGenerator, opts ...Option) (*Engine, *badger.Repositories) {
	t.Helper()

	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := &mock.MockEmbedder{
		EmbedTextFunc: func(ctx context.Context, text string) ([]float32, error) {
			return mock.DeterministicVector(text, 8), nil
		},
	}

	// Keep a nil *MockGenerator from becoming a non-nil ai.Generator
	var gen ai.Generator
	if generator != nil {
		gen = generator
	}

	engine, err := NewEngine(repos.Chunks, repos.Memory, embedder, gen, opts...)
	require.NoError(t, err)
	return engine, repos
}

func TestRetrieveDualSource(t *testing.T) {
	engine, repos := newTestEngine(t, nil)
	ctx := context.Background()

	question := "how should we split the billing service?"
	seedChunks(t, repos, "m1-d1-intro", 1, []string{
		question, // exact match ranks first
		"team topologies shape architecture",
		"capacity planning for peak load",
	})
	seedMemory(t, repos, "alice", []string{
		question, // exact match on the memory side too
		"we chose event sourcing for orders",
	})
	// Another user's memory must never appear
	seedMemory(t, repos, "bob", []string{"bob's private decision"})

	evidence, err := engine.Retrieve(ctx, "alice", question, core.ChunkFilter{})
	require.NoError(t, err)

	require.Len(t, evidence.Course, 3)
	require.Len(t, evidence.Memory, 2)
	assert.Equal(t, question, evidence.Course[0].Chunk.Text)
	assert.Equal(t, question, evidence.Memory[0].Entry.RawText)
	assert.InDelta(t, 1.0, evidence.Course[0].Similarity, 0.001)

	// Both lists descend independently; they are never merged
	assert.GreaterOrEqual(t, evidence.Course[0].Similarity, evidence.Course[1].Similarity)
	assert.GreaterOrEqual(t, evidence.Memory[0].Similarity, evidence.Memory[1].Similarity)
}

func TestRetrieveLimits(t *testing.T) {
	engine, repos := newTestEngine(t, nil, WithCourseLimit(2), WithMemoryLimit(1))
	ctx := context.Background()

	texts := make([]string, 5)
	for i := range texts {
		texts[i] = fmt.Sprintf("course excerpt number %d", i)
	}
	seedChunks(t, repos, "m1-d1-intro", 1, texts)
	seedMemory(t, repos, "alice", []string{"first decision", "second decision", "third decision"})

	evidence, err := engine.Retrieve(ctx, "alice", "anything about the course", core.ChunkFilter{})
	require.NoError(t, err)
	assert.Len(t, evidence.Course, 2)
	assert.Len(t, evidence.Memory, 1)
}

func TestRetrieveEmptyCollections(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	evidence, err := engine.Retrieve(context.Background(), "alice", "anything", core.ChunkFilter{})
	require.NoError(t, err)
	assert.NotNil(t, evidence.Course)
	assert.NotNil(t, evidence.Memory)
	assert.Empty(t, evidence.Course)
	assert.Empty(t, evidence.Memory)
}

func TestRetrieveFilterNarrowsCourseOnly(t *testing.T) {
	engine, repos := newTestEngine(t, nil)
	ctx := context.Background()

	seedChunks(t, repos, "m1-d1-intro", 1, []string{"module one material"})
	seedChunks(t, repos, "m2-d1-scaling", 2, []string{"module two material"})
	seedMemory(t, repos, "alice", []string{"a decision unrelated to modules"})

	evidence, err := engine.Retrieve(ctx, "alice", "material", core.ChunkFilter{Module: 2})
	require.NoError(t, err)
	require.Len(t, evidence.Course, 1)
	assert.Equal(t, 2, evidence.Course[0].Chunk.Module)

	// Memory retrieval ignores the course filter
	assert.Len(t, evidence.Memory, 1)
}

func TestRetrieveEmptyQuestion(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	_, err := engine.Retrieve(context.Background(), "alice", "   ", core.ChunkFilter{})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestBuildContextSections(t *testing.T) {
	evidence := &Evidence{
		Course: []*core.ScoredChunk{
			{
				Chunk: &core.Chunk{
					Key:         "m2-d3-capacity-0003",
					ParentTopic: "Capacity Planning",
					Module:      2, Day: 3,
					Category: core.CategoryTheory,
					Text:     "plan for twice the observed peak",
				},
				Similarity: 0.9,
			},
		},
		Memory: []*core.ScoredEntry{
			{
				Entry: &core.MemoryEntry{
					ID:      "01JDZX8Q2K3T4V5W6X7Y8Z9A0B",
					Kind:    core.KindDecision,
					Topic:   "capacity",
					RawText: "we keep 40% headroom",
				},
				Similarity: 0.8,
			},
		},
	}

	block := BuildContext(evidence)
	assert.Contains(t, block, "COURSE MATERIAL:")
	assert.Contains(t, block, "YOUR EARLIER DECISIONS AND NOTES:")
	assert.Contains(t, block, "plan for twice the observed peak")
	assert.Contains(t, block, "topic: capacity")

	// Each item carries its identifier so the generator can cite sources
	assert.Contains(t, block, "[chunk_id:m2-d3-capacity-0003]")
	assert.Contains(t, block, "[id:01JDZX8Q2K3T4V5W6X7Y8Z9A0B]")
	assert.Less(t, strings.Index(block, "COURSE MATERIAL"), strings.Index(block, "YOUR EARLIER DECISIONS"))
}

func TestBuildContextEmptyEvidence(t *testing.T) {
	block := BuildContext(&Evidence{Course: []*core.ScoredChunk{}, Memory: []*core.ScoredEntry{}})
	assert.Empty(t, block)
}

func TestAsk(t *testing.T) {
	generator := mock.NewMockGenerator()
	engine, repos := newTestEngine(t, generator)
	ctx := context.Background()

	seedChunks(t, repos, "m1-d1-intro", 1, []string{"the course material"})

	answer, err := engine.Ask(ctx, "alice", "what does the course say?", core.ChunkFilter{})
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "what does the course say?")
	require.NotNil(t, answer.Evidence)
	assert.Len(t, answer.Evidence.Course, 1)
}

func TestAskGenerationFailureSurfaces(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.Fail = true
	engine, _ := newTestEngine(t, generator)

	_, err := engine.Ask(context.Background(), "alice", "anything", core.ChunkFilter{})
	assert.ErrorIs(t, err, core.ErrUnavailable)
}

func TestAskWithoutGenerator(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	_, err := engine.Ask(context.Background(), "alice", "anything", core.ChunkFilter{})
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}

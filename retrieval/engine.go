package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/praxislab/lectern/ai"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/storage"
)

const (
	// DefaultCourseLimit is the number of course chunks retrieved per query.
	DefaultCourseLimit = 12

	// DefaultMemoryLimit is the number of memory entries retrieved per query.
	DefaultMemoryLimit = 6
)

// Evidence holds the two independently ranked result lists of one query.
// The lists come from different collections with incomparable score
// distributions, so they are never merged or re-normalized against each
// other.
type Evidence struct {
	// Course holds the top course chunks, ranked by similarity descending.
	Course []*core.ScoredChunk

	// Memory holds the user's top active memory entries, ranked by
	// similarity descending.
	Memory []*core.ScoredEntry
}

// Answer is the result of a full question round trip.
type Answer struct {
	Text     string
	Evidence *Evidence
}

// Engine performs dual-source retrieval over the course and memory
// collections and drives grounded answer generation.
type Engine struct {
	chunks      storage.ChunkRepository
	memory      storage.MemoryRepository
	embedder    ai.Embedder
	generator   ai.Generator
	courseLimit int
	memoryLimit int
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCourseLimit overrides the course result count.
func WithCourseLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.courseLimit = limit
		}
	}
}

// WithMemoryLimit overrides the memory result count.
func WithMemoryLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.memoryLimit = limit
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a retrieval engine. The generator may be nil when only
// Retrieve and BuildContext are used; Ask then fails.
func NewEngine(
	chunks storage.ChunkRepository,
	memory storage.MemoryRepository,
	embedder ai.Embedder,
	generator ai.Generator,
	opts ...Option,
) (*Engine, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if memory == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		chunks:      chunks,
		memory:      memory,
		embedder:    embedder,
		generator:   generator,
		courseLimit: DefaultCourseLimit,
		memoryLimit: DefaultMemoryLimit,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Retrieve embeds the question once and queries both collections with the
// same vector. Either list may be empty; both empty is a valid outcome.
// The filter narrows the course side only; memory retrieval is always
// scoped to the user's active entries.
func (e *Engine) Retrieve(ctx context.Context, userID, question string, filter core.ChunkFilter) (*Evidence, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: %v", core.ErrValidation, ErrEmptyQuestion)
	}

	vector, err := e.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, err
	}

	course, err := e.chunks.FindSimilar(ctx, vector, filter, e.courseLimit)
	if err != nil {
		return nil, err
	}

	memory, err := e.memory.FindSimilar(ctx, userID, vector, e.memoryLimit)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("retrieved evidence",
		"user", userID, "course", len(course), "memory", len(memory))

	return &Evidence{Course: course, Memory: memory}, nil
}

// BuildContext renders evidence into the labeled context block consumed by
// the generator. Course excerpts and the student's own decisions stay in
// separate sections so the model can weigh them differently.
func BuildContext(evidence *Evidence) string {
	var b strings.Builder

	if len(evidence.Course) > 0 {
		b.WriteString("COURSE MATERIAL:\n")
		for i, scored := range evidence.Course {
			chunk := scored.Chunk
			fmt.Fprintf(&b, "[%d] [chunk_id:%s] (%s, module %d, day %d, %s)\n%s\n\n",
				i+1, chunk.Key, chunk.ParentTopic, chunk.Module, chunk.Day,
				chunk.Category.String(), chunk.Text)
		}
	}

	if len(evidence.Memory) > 0 {
		b.WriteString("YOUR EARLIER DECISIONS AND NOTES:\n")
		for i, scored := range evidence.Memory {
			entry := scored.Entry
			fmt.Fprintf(&b, "[%d] [id:%s] (%s", i+1, entry.ID, entry.Kind.String())
			if entry.Topic != "" {
				fmt.Fprintf(&b, ", topic: %s", entry.Topic)
			}
			fmt.Fprintf(&b, ")\n%s\n\n", entry.Text())
		}
	}

	return b.String()
}

// Ask runs the full round trip: retrieve, assemble context, generate.
// Generation failures surface as errors; the engine never degrades to
// returning raw evidence as if it were an answer.
func (e *Engine) Ask(ctx context.Context, userID, question string, filter core.ChunkFilter) (*Answer, error) {
	if e.generator == nil {
		return nil, ErrGeneratorRequired
	}

	evidence, err := e.Retrieve(ctx, userID, question, filter)
	if err != nil {
		return nil, err
	}

	text, err := e.generator.GenerateAnswer(ctx, question, BuildContext(evidence))
	if err != nil {
		return nil, err
	}

	return &Answer{Text: text, Evidence: evidence}, nil
}

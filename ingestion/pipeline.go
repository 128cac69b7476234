package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/praxislab/lectern/ai"
	"github.com/praxislab/lectern/chunker"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/manifest"
	"github.com/praxislab/lectern/storage"
)

// Pipeline orchestrates transcript ingestion: manifest validation, chunking,
// embedding and atomic per-lecture replacement in storage.
type Pipeline struct {
	lectures storage.LectureRepository
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	pool     *ants.Pool
	chunkCfg chunker.Config
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent per-lecture work.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunkerConfig overrides the default chunking parameters.
func WithChunkerConfig(cfg chunker.Config) Option {
	return func(p *Pipeline) error {
		p.chunkCfg = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	lectures storage.LectureRepository,
	chunks storage.ChunkRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if lectures == nil {
		return nil, ErrLectureRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		lectures: lectures,
		chunks:   chunks,
		embedder: embedder,
		pool:     pool,
		chunkCfg: chunker.DefaultConfig(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Validate loads the manifest and checks it against the transcript files in
// courseDir. It never touches storage or the embedding service. The
// returned result carries every violation found, not just the first.
func (p *Pipeline) Validate(ctx context.Context, manifestPath, courseDir string) (*manifest.Result, error) {
	entries, err := manifest.LoadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	return manifest.Validate(entries, os.DirFS(courseDir)), nil
}

// Preview validates the manifest and reports what a commit would do for
// each in-scope lecture: chunk counts, sizes and category distribution,
// plus the number of stored chunks that would be replaced. No embeddings
// are generated and nothing is written.
func (p *Pipeline) Preview(ctx context.Context, manifestPath, courseDir string, scope Scope) (*Preview, error) {
	result, err := p.Validate(ctx, manifestPath, courseDir)
	if err != nil {
		return nil, err
	}
	if !result.Valid() {
		return nil, result.Err()
	}

	selected := selectScope(result.Lectures, scope)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %+v", ErrEmptyScope, scope)
	}

	preview := &Preview{}
	for _, lecture := range selected {
		text, err := os.ReadFile(filepath.Join(courseDir, lecture.SourceFile))
		if err != nil {
			return nil, err
		}

		stats := chunker.Describe(string(text), p.chunkCfg)

		existing, err := p.chunks.CountLectureChunks(ctx, lecture.Key)
		if err != nil {
			return nil, err
		}

		preview.Lectures = append(preview.Lectures, &LecturePreview{
			Lecture:  lecture,
			Stats:    stats,
			Existing: existing,
		})
		preview.TotalChunks += stats.ChunkCount
	}

	return preview, nil
}

// Commit runs the full ingestion: validate, chunk, embed and atomically
// replace each in-scope lecture's chunk set. Validation failures abort the
// run before any embedding call. Lectures are processed concurrently; a
// failure in one lecture leaves its old chunks in place and does not stop
// the others. The force flag is a required confirmation because commit
// destroys the previous chunk sets of every in-scope lecture.
func (p *Pipeline) Commit(ctx context.Context, manifestPath, courseDir string, scope Scope, force bool) (*Result, error) {
	if !force {
		return nil, ErrForceRequired
	}

	result, err := p.Validate(ctx, manifestPath, courseDir)
	if err != nil {
		return nil, err
	}
	if !result.Valid() {
		return nil, result.Err()
	}

	selected := selectScope(result.Lectures, scope)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %+v", ErrEmptyScope, scope)
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = &Result{}
	)

	for _, lecture := range selected {
		lecture := lecture
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			res, err := p.ingestLecture(ctx, courseDir, lecture)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("lecture ingestion failed", "lecture", lecture.Key, "err", err)
				out.Failed = append(out.Failed, LectureFailure{LectureKey: lecture.Key, Err: err})
				return
			}
			p.logger.Info("lecture ingested", "lecture", lecture.Key, "chunks", res.Inserted)
			out.Ingested = append(out.Ingested, res)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			out.Failed = append(out.Failed, LectureFailure{LectureKey: lecture.Key, Err: submitErr})
			mu.Unlock()
		}
	}

	wg.Wait()

	// Stable ordering regardless of worker completion order
	sort.Slice(out.Ingested, func(i, j int) bool {
		return lessByPosition(out.Ingested[i].Lecture, out.Ingested[j].Lecture)
	})
	sort.Slice(out.Failed, func(i, j int) bool {
		return out.Failed[i].LectureKey < out.Failed[j].LectureKey
	})

	return out, nil
}

// ingestLecture chunks, embeds and stores one lecture. Any error leaves the
// lecture's previously stored chunks untouched.
func (p *Pipeline) ingestLecture(ctx context.Context, courseDir string, lecture *core.Lecture) (*LectureResult, error) {
	text, err := os.ReadFile(filepath.Join(courseDir, lecture.SourceFile))
	if err != nil {
		return nil, err
	}

	pieces, err := chunker.SplitChecked(string(text), p.chunkCfg)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(pieces))
	for i, piece := range pieces {
		texts[i] = piece.Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(pieces) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(pieces))
	}

	chunks := make([]*core.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = &core.Chunk{
			Key:         core.ChunkKey(lecture.Key, piece.Sequence),
			LectureKey:  lecture.Key,
			Module:      lecture.Module,
			Day:         lecture.Day,
			Speaker:     lecture.Speaker,
			Category:    piece.Category,
			Sequence:    piece.Sequence,
			ParentTopic: lecture.Title,
			Text:        piece.Text,
			Vector:      vectors[i],
			Metadata: map[string]string{
				"speaker_name": lecture.SpeakerName,
				"source_file":  lecture.SourceFile,
			},
		}
	}

	replaced, err := p.chunks.CountLectureChunks(ctx, lecture.Key)
	if err != nil {
		return nil, err
	}

	if err := p.lectures.UpsertLecture(ctx, lecture); err != nil {
		return nil, err
	}
	if err := p.chunks.ReplaceLectureChunks(ctx, lecture.Key, chunks); err != nil {
		return nil, err
	}

	return &LectureResult{
		Lecture:  lecture,
		Inserted: len(chunks),
		Replaced: replaced,
	}, nil
}

// selectScope filters lectures to the scope, preserving manifest order.
func selectScope(lectures []*core.Lecture, scope Scope) []*core.Lecture {
	if scope.IsZero() {
		return lectures
	}
	var selected []*core.Lecture
	for _, lecture := range lectures {
		if scope.Matches(lecture) {
			selected = append(selected, lecture)
		}
	}
	return selected
}

// lessByPosition orders lectures by (module, day, order).
func lessByPosition(a, b *core.Lecture) bool {
	if a.Module != b.Module {
		return a.Module < b.Module
	}
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	return a.Order < b.Order
}

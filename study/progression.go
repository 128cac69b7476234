package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/memory"
	"github.com/praxislab/lectern/storage"
)

// BlockSize is the maximum number of chunks delivered per Next call.
const BlockSize = 5

// Block is one delivery of study material. Chunks never span lectures; a
// lecture's tail block may be shorter than BlockSize. Completed is set on
// the block that exhausts the curriculum and on every call after it.
type Block struct {
	Cursor    *core.Cursor
	Lecture   *core.Lecture
	Chunks    []*core.Chunk
	Completed bool
}

// Progression drives a user's walk through the curriculum in
// (module, day, lecture-order, chunk-sequence) order. Only methodology
// lectures are visited; case-study material stays retrieval-only. The
// cursor only ever moves forward, except for an explicit Start reset.
type Progression struct {
	lectures  storage.LectureRepository
	chunks    storage.ChunkRepository
	cursors   storage.CursorRepository
	versioner *memory.Versioner
	logger    *slog.Logger
}

// NewProgression creates a study progression engine.
func NewProgression(
	lectures storage.LectureRepository,
	chunks storage.ChunkRepository,
	cursors storage.CursorRepository,
	versioner *memory.Versioner,
	logger *slog.Logger,
) (*Progression, error) {
	if lectures == nil {
		return nil, ErrLectureRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if cursors == nil {
		return nil, ErrCursorRepositoryRequired
	}
	if versioner == nil {
		return nil, ErrVersionerRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Progression{
		lectures:  lectures,
		chunks:    chunks,
		cursors:   cursors,
		versioner: versioner,
		logger:    logger,
	}, nil
}

// Start resets the user's cursor to the first methodology lecture. The
// reset is destructive: any previous progress for this user is discarded.
func (p *Progression) Start(ctx context.Context, userID string) (*core.Cursor, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id", core.ErrValidation)
	}

	first, err := p.lectures.FirstLecture(ctx, core.SpeakerMethodology)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", core.ErrNotFound, ErrEmptyCurriculum)
		}
		return nil, err
	}

	cursor := &core.Cursor{
		UserID:     userID,
		Mode:       core.ModeStudy,
		Module:     first.Module,
		Day:        first.Day,
		LectureKey: first.Key,
		Sequence:   0,
	}
	if err := p.cursors.PutCursor(ctx, cursor); err != nil {
		return nil, err
	}

	p.logger.Info("study started", "user", userID, "lecture", first.Key)
	return cursor, nil
}

// Next delivers the next block of up to BlockSize chunks at or after the
// cursor and advances it. An exhausted lecture moves the cursor to the
// first position of the next methodology lecture; an exhausted curriculum
// marks the cursor completed. Calling Next on a completed cursor returns
// an empty completed block without error.
func (p *Progression) Next(ctx context.Context, userID string) (*Block, error) {
	cursor, err := p.cursors.GetCursor(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		cursor, err = p.Start(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	if cursor.Completed {
		return &Block{Cursor: cursor, Chunks: []*core.Chunk{}, Completed: true}, nil
	}

	for {
		lecture, err := p.lectures.GetLecture(ctx, cursor.LectureKey)
		if err != nil {
			return nil, fmt.Errorf("cursor lecture %s: %w", cursor.LectureKey, err)
		}

		chunks, err := p.chunks.GetLectureChunks(ctx, cursor.LectureKey, cursor.Sequence, BlockSize)
		if err != nil {
			return nil, err
		}

		if len(chunks) == 0 {
			// Nothing (left) in this lecture, move on
			if err := p.advance(ctx, cursor, lecture); err != nil {
				return nil, err
			}
			if cursor.Completed {
				if err := p.cursors.PutCursor(ctx, cursor); err != nil {
					return nil, err
				}
				return &Block{Cursor: cursor, Chunks: []*core.Chunk{}, Completed: true}, nil
			}
			continue
		}

		total, err := p.chunks.CountLectureChunks(ctx, cursor.LectureKey)
		if err != nil {
			return nil, err
		}

		nextSeq := chunks[len(chunks)-1].Sequence + 1
		if nextSeq >= total || len(chunks) < BlockSize {
			if err := p.advance(ctx, cursor, lecture); err != nil {
				return nil, err
			}
		} else {
			cursor.Sequence = nextSeq
		}

		if err := p.cursors.PutCursor(ctx, cursor); err != nil {
			return nil, err
		}

		p.logger.Debug("study block delivered",
			"user", userID, "lecture", lecture.Key, "chunks", len(chunks),
			"completed", cursor.Completed)

		return &Block{
			Cursor:    cursor,
			Lecture:   lecture,
			Chunks:    chunks,
			Completed: cursor.Completed,
		}, nil
	}
}

// Answer records the user's decision for the current study position. The
// cursor does not move: answering is orthogonal to progression.
func (p *Progression) Answer(ctx context.Context, userID, question, decision string) (*core.MemoryEntry, error) {
	cursor, err := p.cursors.GetCursor(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		cursor, err = p.Start(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	return p.versioner.Record(ctx, userID, core.KindDecision, decision, memory.RecordContext{
		Module:     cursor.Module,
		Day:        cursor.Day,
		LectureKey: cursor.LectureKey,
		Question:   question,
	})
}

// advance moves the cursor to the next methodology lecture, or marks it
// completed at the end of the curriculum.
func (p *Progression) advance(ctx context.Context, cursor *core.Cursor, current *core.Lecture) error {
	next, err := p.lectures.NextLecture(ctx, current, core.SpeakerMethodology)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			cursor.Completed = true
			return nil
		}
		return err
	}

	cursor.Module = next.Module
	cursor.Day = next.Day
	cursor.LectureKey = next.Key
	cursor.Sequence = 0
	return nil
}

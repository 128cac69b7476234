package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/praxislab/lectern/ai"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/storage"
)

// Versioner records and refines a user's decision memory.
//
// Memory is append-only. Recording inserts a new active entry; refining
// never edits stored text, it supersedes the old entry and inserts a
// successor that points back at it. The full decision history stays
// reconstructible by following Supersedes links.
type Versioner struct {
	repo     storage.MemoryRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// RecordContext captures where in the curriculum a memory entry was made.
// All fields are optional.
type RecordContext struct {
	Module          int
	Day             int
	LectureKey      string
	Topic           string
	Question        string
	SourceChunkKeys []string
	Metadata        map[string]string
}

// NewVersioner creates a memory versioner.
func NewVersioner(repo storage.MemoryRepository, embedder ai.Embedder, logger *slog.Logger) (*Versioner, error) {
	if repo == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Versioner{repo: repo, embedder: embedder, logger: logger}, nil
}

// Record inserts a new active entry of the given kind. The raw text is
// stored verbatim; a whitespace-normalized copy is embedded for retrieval.
func (v *Versioner) Record(ctx context.Context, userID string, kind core.MemoryKind, rawText string, rc RecordContext) (*core.MemoryEntry, error) {
	entry := &core.MemoryEntry{
		ID:              ulid.Make().String(),
		UserID:          userID,
		Kind:            kind,
		Status:          core.StatusActive,
		Module:          rc.Module,
		Day:             rc.Day,
		LectureKey:      rc.LectureKey,
		Topic:           rc.Topic,
		Question:        rc.Question,
		RawText:         rawText,
		NormalizedText:  normalizeText(rawText),
		SourceChunkKeys: rc.SourceChunkKeys,
		Metadata:        rc.Metadata,
	}
	if err := core.ValidateMemoryEntry(entry); err != nil {
		return nil, err
	}

	vector, err := v.embedder.EmbedText(ctx, entry.NormalizedText)
	if err != nil {
		return nil, err
	}
	entry.Vector = vector

	inserted, err := v.repo.InsertEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	v.logger.Info("memory entry recorded",
		"user", userID, "kind", kind.String(), "id", inserted.ID)
	return inserted, nil
}

// Refine supersedes one of the user's active entries with new text. The
// successor inherits the predecessor's kind and curriculum position and
// records the predecessor's ID in Supersedes. Refining an entry owned by
// another user reports not found rather than leaking its existence;
// refining an already superseded entry reports a conflict, since only the
// head of a version chain may be refined.
func (v *Versioner) Refine(ctx context.Context, userID, entryID, rawText string) (*core.MemoryEntry, error) {
	old, err := v.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if old.UserID != userID {
		return nil, fmt.Errorf("entry %s: %w", entryID, core.ErrNotFound)
	}
	if old.Status == core.StatusSuperseded {
		return nil, fmt.Errorf("entry %s already superseded: %w", entryID, core.ErrConflict)
	}

	successor := &core.MemoryEntry{
		ID:              ulid.Make().String(),
		UserID:          userID,
		Kind:            old.Kind,
		Status:          core.StatusActive,
		Module:          old.Module,
		Day:             old.Day,
		LectureKey:      old.LectureKey,
		Topic:           old.Topic,
		Question:        old.Question,
		RawText:         rawText,
		NormalizedText:  normalizeText(rawText),
		SourceChunkKeys: old.SourceChunkKeys,
		Metadata:        old.Metadata,
	}
	if err := core.ValidateMemoryEntry(successor); err != nil {
		return nil, err
	}

	vector, err := v.embedder.EmbedText(ctx, successor.NormalizedText)
	if err != nil {
		return nil, err
	}
	successor.Vector = vector

	result, err := v.repo.Supersede(ctx, entryID, successor)
	if err != nil {
		return nil, err
	}

	v.logger.Info("memory entry refined",
		"user", userID, "old", entryID, "new", result.ID)
	return result, nil
}

// Review lists the user's entries. By default only active entries are
// returned, oldest first; includeAll adds superseded history.
func (v *Versioner) Review(ctx context.Context, userID string, includeAll, newestFirst bool) ([]*core.MemoryEntry, error) {
	status := core.StatusActive
	if includeAll {
		status = 0
	}
	return v.repo.ListEntries(ctx, userID, status, newestFirst)
}

// History walks a version chain backwards from the given entry, newest
// first, following Supersedes links.
func (v *Versioner) History(ctx context.Context, userID, entryID string) ([]*core.MemoryEntry, error) {
	var chain []*core.MemoryEntry
	id := entryID
	for id != "" {
		entry, err := v.repo.GetEntry(ctx, id)
		if err != nil {
			return nil, err
		}
		if entry.UserID != userID {
			return nil, fmt.Errorf("entry %s: %w", id, core.ErrNotFound)
		}
		chain = append(chain, entry)
		id = entry.Supersedes
	}
	return chain, nil
}

// normalizeText collapses runs of whitespace so embeddings are stable
// across formatting differences. Stored raw text is never altered.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

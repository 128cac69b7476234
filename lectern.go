// Copyright 2026 Praxis Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package lectern assembles the ingestion, retrieval, study and memory
// components on top of a shared store and AI provider.
package lectern

import (
	"log/slog"

	"github.com/praxislab/lectern/ai"
	"github.com/praxislab/lectern/ai/openai"
	"github.com/praxislab/lectern/ingestion"
	"github.com/praxislab/lectern/memory"
	"github.com/praxislab/lectern/retrieval"
	"github.com/praxislab/lectern/storage"
	"github.com/praxislab/lectern/storage/badger"
	"github.com/praxislab/lectern/study"
)

// Workspace is the root handle over one course database. It owns the
// storage backend, the repositories and the AI provider, and builds the
// engines on demand.
type Workspace struct {
	backend     *badger.Backend
	lectureRepo storage.LectureRepository
	chunkRepo   storage.ChunkRepository
	memoryRepo  storage.MemoryRepository
	cursorRepo  storage.CursorRepository
	provider    ai.Provider
	logger      *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI service configuration used to build the default
// OpenAI-compatible provider.
func WithAIConfig(cfg *ai.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider injects a ready-made AI provider, bypassing the default
// OpenAI-compatible one. Used by tests with the mock provider.
func WithProvider(provider ai.Provider) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the store in memory instead of on disk.
func WithInMemory() WorkspaceOption {
	return func(o *workspaceOptions) {
		o.inMemory = true
	}
}

// NewWorkspace opens (or creates) the course database at filePath and wires
// every repository and service on top of it.
func NewWorkspace(filePath string, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repos := badger.NewRepositories(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Workspace{
		backend:     backend,
		lectureRepo: repos.Lectures,
		chunkRepo:   repos.Chunks,
		memoryRepo:  repos.Memory,
		cursorRepo:  repos.Cursors,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (w *Workspace) Close() error {
	if err := w.provider.Close(); err != nil {
		w.logger.Error("error closing AI provider", "err", err)
	}
	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// LectureRepository exposes the lecture catalog.
func (w *Workspace) LectureRepository() storage.LectureRepository {
	return w.lectureRepo
}

// ChunkRepository exposes the course-chunk collection.
func (w *Workspace) ChunkRepository() storage.ChunkRepository {
	return w.chunkRepo
}

// MemoryRepository exposes the decision-memory collection.
func (w *Workspace) MemoryRepository() storage.MemoryRepository {
	return w.memoryRepo
}

// CursorRepository exposes the per-user study cursors.
func (w *Workspace) CursorRepository() storage.CursorRepository {
	return w.cursorRepo
}

// NewIngestionPipeline builds an ingestion pipeline over this workspace.
func (w *Workspace) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(w.lectureRepo, w.chunkRepo, w.provider.Embedder(), opts...)
}

// NewRetrievalEngine builds a dual-source retrieval engine over this
// workspace.
func (w *Workspace) NewRetrievalEngine(opts ...retrieval.Option) (*retrieval.Engine, error) {
	return retrieval.NewEngine(w.chunkRepo, w.memoryRepo, w.provider.Embedder(), w.provider.Generator(), opts...)
}

// NewVersioner builds a decision-memory versioner over this workspace.
func (w *Workspace) NewVersioner() (*memory.Versioner, error) {
	return memory.NewVersioner(w.memoryRepo, w.provider.Embedder(), w.logger)
}

// NewProgression builds a study progression engine over this workspace.
func (w *Workspace) NewProgression() (*study.Progression, error) {
	versioner, err := w.NewVersioner()
	if err != nil {
		return nil, err
	}
	return study.NewProgression(w.lectureRepo, w.chunkRepo, w.cursorRepo, versioner, w.logger)
}

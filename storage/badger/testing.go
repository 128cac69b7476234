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


package badger

import "github.com/praxislab/lectern/storage"

// Repositories bundles every repository backed by one database.
type Repositories struct {
	Lectures storage.LectureRepository
	Chunks   storage.ChunkRepository
	Memory   storage.MemoryRepository
	Cursors  storage.CursorRepository
}

// NewRepositories creates all repositories on top of a shared backend.
func NewRepositories(backend *Backend) *Repositories {
	return &Repositories{
		Lectures: NewLectureRepository(backend),
		Chunks:   NewChunkRepository(backend),
		Memory:   NewMemoryRepository(backend),
		Cursors:  NewCursorRepository(backend),
	}
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must close the backend when done.
func NewMemoryRepositories() (*Repositories, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}
	return NewRepositories(backend), backend, nil
}

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


// Package storage defines the knowledge-store abstraction for lectern.
//
// The store holds four record families: the lecture catalog, the
// course-chunk collection, the per-user decision-memory collection, and
// per-user study cursors. Repository interfaces decouple the engine from
// the storage backend; the badger subpackage provides the default
// implementation.
//
// Two atomicity guarantees are part of the contract: replacing all chunks
// of one lecture, and flipping a memory entry to superseded while inserting
// its successor. Both must happen inside a single transaction so readers
// never observe a mixed state.
//
// All repository methods accept context.Context and must be safe for
// concurrent use. Lookups for missing records return core.ErrNotFound.
package storage

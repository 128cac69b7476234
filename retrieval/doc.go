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


// Package retrieval answers questions from two evidence sources at once:
// the shared course-chunk collection and the asking user's private decision
// memory. One query embedding serves both searches, and the two ranked
// lists are kept separate end to end. Course material is what the course
// teaches; memory is what this student decided. Mixing their scores would
// let one source silently crowd out the other.
package retrieval

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


// Package ai defines the embedding and answer-generation abstractions used
// throughout lectern.
//
// Two services are defined: an Embedder that turns text into vectors for
// similarity search, and a Generator that answers questions from assembled
// evidence. The openai subpackage implements both against any
// OpenAI-compatible API; the mock subpackage provides deterministic test
// doubles.
package ai

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


// Package ingestion turns lecture transcripts into embedded, queryable
// chunks.
//
// A run starts from a manifest describing the curriculum. Three levels of
// commitment are offered: Validate checks the manifest against the
// transcript files and reports every violation; Preview additionally chunks
// each transcript in memory and reports what a commit would write; Commit
// embeds the chunks and atomically replaces each lecture's stored set.
//
// Re-ingesting a lecture is idempotent with respect to chunk identity:
// chunk keys derive from the lecture key and chunk sequence, so unchanged
// transcripts produce identical keys. Failures are isolated per lecture;
// the previously stored chunks of a failed lecture stay available.
package ingestion

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


package core

import "errors"

// Failure taxonomy. Every error surfaced by the engine wraps exactly one of
// these so callers can distinguish "fix your input" from "try again later".
var (
	// ErrValidation indicates bad manifest or input data. Validation
	// failures are detected before any write and are never partially
	// applied.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an unknown lecture, chunk, memory entry or
	// cursor. Safe to report and retry with corrected input.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates the embedding or generation collaborator is
	// unreachable or timed out. Retryable by the caller; never silently
	// degraded to a wrong answer.
	ErrUnavailable = errors.New("service unavailable")

	// ErrConflict indicates an invariant violation, such as refining an
	// already-superseded memory entry.
	ErrConflict = errors.New("conflict")
)

// Domain validation errors
var (
	// ErrInvalidLecture indicates a Lecture failed validation.
	ErrInvalidLecture = errors.New("invalid lecture")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidMemoryEntry indicates a MemoryEntry failed validation.
	ErrInvalidMemoryEntry = errors.New("invalid memory entry")

	// ErrEmptyText indicates a required text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyKey indicates a required key field is empty.
	ErrEmptyKey = errors.New("key cannot be empty")

	// ErrInvalidSpeakerType indicates an invalid SpeakerType value.
	ErrInvalidSpeakerType = errors.New("invalid speaker type")

	// ErrInvalidMemoryKind indicates an invalid MemoryKind value.
	ErrInvalidMemoryKind = errors.New("invalid memory kind")

	// ErrInvalidContentCategory indicates an invalid ContentCategory value.
	ErrInvalidContentCategory = errors.New("invalid content category")

	// ErrInvalidPosition indicates a module, day or order field that is
	// not a positive integer.
	ErrInvalidPosition = errors.New("module, day and order must be positive")
)

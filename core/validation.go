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

import (
	"fmt"
	"regexp"
)

// lectureKeyPattern constrains lecture keys to a shape that is safe to embed
// in composite storage keys and derived chunk identifiers.
var lectureKeyPattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// ValidLectureKey reports whether a lecture key has an acceptable shape.
func ValidLectureKey(key string) bool {
	return lectureKeyPattern.MatchString(key)
}

// ValidateLecture validates a Lecture according to domain rules.
//
// Validation rules:
//   - Key must be non-empty and match the lecture key pattern
//   - Module, Day and Order must be positive integers
//   - Speaker must belong to the closed speaker set
//   - Title must not be empty
func ValidateLecture(lecture *Lecture) error {
	if lecture == nil {
		return fmt.Errorf("%w: lecture is nil", ErrInvalidLecture)
	}
	if lecture.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLecture, ErrEmptyKey)
	}
	if !ValidLectureKey(lecture.Key) {
		return fmt.Errorf("%w: key %q must match %s", ErrInvalidLecture, lecture.Key, lectureKeyPattern)
	}
	if lecture.Module < 1 || lecture.Day < 1 || lecture.Order < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidLecture, ErrInvalidPosition)
	}
	if err := ValidateSpeakerType(lecture.Speaker); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLecture, err)
	}
	if lecture.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidLecture)
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Key and LectureKey must not be empty
//   - Key must equal ChunkKey(LectureKey, Sequence)
//   - Text must not be empty
//   - Sequence must not be negative
//
// NOT validated (populated by the ingestion pipeline):
//   - Vector (empty until the embedding gateway runs)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.LectureKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyKey)
	}
	if chunk.Sequence < 0 {
		return fmt.Errorf("%w: sequence %d is negative", ErrInvalidChunk, chunk.Sequence)
	}
	if want := ChunkKey(chunk.LectureKey, chunk.Sequence); chunk.Key != want {
		return fmt.Errorf("%w: key %q does not match derived key %q", ErrInvalidChunk, chunk.Key, want)
	}
	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}
	return nil
}

// ValidateMemoryEntry validates a MemoryEntry according to domain rules.
//
// Validation rules:
//   - UserID must not be empty
//   - RawText must not be empty
//   - Kind and Status must have valid values
func ValidateMemoryEntry(entry *MemoryEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidMemoryEntry)
	}
	if entry.UserID == "" {
		return fmt.Errorf("%w: user id cannot be empty", ErrInvalidMemoryEntry)
	}
	if entry.RawText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMemoryEntry, ErrEmptyText)
	}
	if entry.Kind < KindDecision || entry.Kind > KindArchitectPlan {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidMemoryEntry, ErrInvalidMemoryKind, entry.Kind)
	}
	if entry.Status != StatusActive && entry.Status != StatusSuperseded {
		return fmt.Errorf("%w: invalid status %d", ErrInvalidMemoryEntry, entry.Status)
	}
	return nil
}

// ValidateSpeakerType validates that a SpeakerType has a valid value.
func ValidateSpeakerType(speaker SpeakerType) error {
	if speaker != SpeakerMethodology && speaker != SpeakerCaseStudy {
		return fmt.Errorf("%w: value %d", ErrInvalidSpeakerType, speaker)
	}
	return nil
}

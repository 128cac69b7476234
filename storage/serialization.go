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


package storage

import (
	"github.com/praxislab/lectern/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalLecture serializes a Lecture to bytes.
func MarshalLecture(lecture *core.Lecture) []byte {
	buf := make([]byte, core.LectureMUS.Size(*lecture))
	core.LectureMUS.Marshal(*lecture, buf)
	return buf
}

// UnmarshalLecture deserializes a Lecture from bytes.
func UnmarshalLecture(data []byte) (*core.Lecture, error) {
	lecture, _, err := core.LectureMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &lecture, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalMemoryEntry serializes a MemoryEntry to bytes.
func MarshalMemoryEntry(entry *core.MemoryEntry) []byte {
	buf := make([]byte, core.MemoryEntryMUS.Size(*entry))
	core.MemoryEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalMemoryEntry deserializes a MemoryEntry from bytes.
func UnmarshalMemoryEntry(data []byte) (*core.MemoryEntry, error) {
	entry, _, err := core.MemoryEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalCursor serializes a Cursor to bytes.
func MarshalCursor(cursor *core.Cursor) []byte {
	buf := make([]byte, core.CursorMUS.Size(*cursor))
	core.CursorMUS.Marshal(*cursor, buf)
	return buf
}

// UnmarshalCursor deserializes a Cursor from bytes.
func UnmarshalCursor(data []byte) (*core.Cursor, error) {
	cursor, _, err := core.CursorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}

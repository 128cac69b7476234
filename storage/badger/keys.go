package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/praxislab/lectern/core"
)

// Key prefixes for different data types
const (
	lectureRecordPrefix = "lecrec"
	lectureOrderPrefix  = "lecord"
	chunkRecordPrefix   = "chkrec"
	chunkLecturePrefix  = "chklec"
	memoryRecordPrefix  = "memrec"
	memoryUserPrefix    = "memusr"
	cursorRecordPrefix  = "currec"
)

// makeLectureKey generates a key for a lecture record by its lecture key.
func makeLectureKey(lectureKey string) []byte {
	return []byte(fmt.Sprintf("%s:%s", lectureRecordPrefix, lectureKey))
}

// makeLectureOrderKey generates a composite key for the curriculum order
// index. Format: prefix:module:day:order
func makeLectureOrderKey(module, day, order int) []byte {
	prefix := lectureOrderPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 12 // 4 bytes each for module, day, order
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint32(buf[offset:], uint32(module))
	offset += 4
	binary.BigEndian.PutUint32(buf[offset:], uint32(day))
	offset += 4
	binary.BigEndian.PutUint32(buf[offset:], uint32(order))
	return buf
}

// makeChunkKey generates a key for a chunk record. The textual chunk key
// is hashed to a fixed-width ID so record keys stay uniform regardless of
// lecture key length.
func makeChunkKey(chunkKey string) []byte {
	prefix := chunkRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(chunkKey)))
	return buf
}

// makeChunkLectureKey generates a composite key for the per-lecture chunk
// index. Format: prefix:lectureKey:sequence
func makeChunkLectureKey(lectureKey string, sequence int) []byte {
	prefix := chunkLecturePrefix + ":" + lectureKey + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 4 // 4 bytes for sequence
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint32(buf[offset:], uint32(sequence))
	return buf
}

// makePartialChunkLectureKey generates the prefix covering every index
// entry of one lecture.
func makePartialChunkLectureKey(lectureKey string) []byte {
	return []byte(chunkLecturePrefix + ":" + lectureKey + ":")
}

// makeMemoryKey generates a key for a memory entry by ID.
func makeMemoryKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", memoryRecordPrefix, id))
}

// makeMemoryUserKey generates a composite key for the per-user memory
// index. ULIDs sort lexicographically by creation time, so the index
// doubles as a chronological ordering. Format: prefix:userID:entryID
func makeMemoryUserKey(userID, entryID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", memoryUserPrefix, userID, entryID))
}

// makePartialMemoryUserKey generates the prefix covering every index
// entry of one user.
func makePartialMemoryUserKey(userID string) []byte {
	return []byte(memoryUserPrefix + ":" + userID + ":")
}

// makeCursorKey generates a key for a user's study cursor.
func makeCursorKey(userID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", cursorRecordPrefix, userID))
}

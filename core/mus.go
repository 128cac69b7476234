package core

import (
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted record types. Field order
// is the struct order; timestamps are encoded as unix microseconds.

// IDMUS serializes ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// LectureMUS serializes Lecture values.
var LectureMUS = lectureMUS{}

type lectureMUS struct{}

func (s lectureMUS) Marshal(v Lecture, bs []byte) (n int) {
	n = ord.String.Marshal(v.Key, bs)
	n += varint.Int.Marshal(v.Module, bs[n:])
	n += varint.Int.Marshal(v.Day, bs[n:])
	n += varint.Int.Marshal(v.Order, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.SpeakerName, bs[n:])
	n += varint.Int.Marshal(int(v.Speaker), bs[n:])
	n += ord.String.Marshal(v.SourceFile, bs[n:])
	return n
}

func (s lectureMUS) Unmarshal(bs []byte) (v Lecture, n int, err error) {
	var n1 int
	if v.Key, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Module, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Day, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Order, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.SpeakerName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var speaker int
	if speaker, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Speaker = SpeakerType(speaker)
	if v.SourceFile, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (s lectureMUS) Size(v Lecture) (size int) {
	size = ord.String.Size(v.Key)
	size += varint.Int.Size(v.Module)
	size += varint.Int.Size(v.Day)
	size += varint.Int.Size(v.Order)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.SpeakerName)
	size += varint.Int.Size(int(v.Speaker))
	size += ord.String.Size(v.SourceFile)
	return size
}

// ChunkMUS serializes Chunk values.
var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(v.Key, bs)
	n += ord.String.Marshal(v.LectureKey, bs[n:])
	n += varint.Int.Marshal(v.Module, bs[n:])
	n += varint.Int.Marshal(v.Day, bs[n:])
	n += varint.Int.Marshal(int(v.Speaker), bs[n:])
	n += varint.Int.Marshal(int(v.Category), bs[n:])
	n += varint.Int.Marshal(v.Sequence, bs[n:])
	n += ord.String.Marshal(v.ParentTopic, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += marshalVector(v.Vector, bs[n:])
	n += marshalStringMap(v.Metadata, bs[n:])
	return n
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var n1 int
	if v.Key, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.LectureKey, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Module, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Day, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var speaker, category int
	if speaker, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Speaker = SpeakerType(speaker)
	if category, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Category = ContentCategory(category)
	if v.Sequence, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.ParentTopic, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Vector, n1, err = unmarshalVector(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = ord.String.Size(v.Key)
	size += ord.String.Size(v.LectureKey)
	size += varint.Int.Size(v.Module)
	size += varint.Int.Size(v.Day)
	size += varint.Int.Size(int(v.Speaker))
	size += varint.Int.Size(int(v.Category))
	size += varint.Int.Size(v.Sequence)
	size += ord.String.Size(v.ParentTopic)
	size += ord.String.Size(v.Text)
	size += sizeVector(v.Vector)
	size += sizeStringMap(v.Metadata)
	return size
}

// MemoryEntryMUS serializes MemoryEntry values.
var MemoryEntryMUS = memoryEntryMUS{}

type memoryEntryMUS struct{}

func (s memoryEntryMUS) Marshal(v MemoryEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.UserID, bs[n:])
	n += varint.Int.Marshal(int(v.Kind), bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += varint.Int.Marshal(v.Module, bs[n:])
	n += varint.Int.Marshal(v.Day, bs[n:])
	n += ord.String.Marshal(v.LectureKey, bs[n:])
	n += ord.String.Marshal(v.Topic, bs[n:])
	n += ord.String.Marshal(v.Question, bs[n:])
	n += ord.String.Marshal(v.RawText, bs[n:])
	n += ord.String.Marshal(v.NormalizedText, bs[n:])
	n += marshalStringSlice(v.SourceChunkKeys, bs[n:])
	n += ord.String.Marshal(v.Supersedes, bs[n:])
	n += marshalVector(v.Vector, bs[n:])
	n += marshalStringMap(v.Metadata, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (s memoryEntryMUS) Unmarshal(bs []byte) (v MemoryEntry, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.UserID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var kind, status int
	if kind, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Kind = MemoryKind(kind)
	if status, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Status = MemoryStatus(status)
	if v.Module, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Day, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.LectureKey, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Topic, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Question, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.RawText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.NormalizedText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.SourceChunkKeys, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Supersedes, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Vector, n1, err = unmarshalVector(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (s memoryEntryMUS) Size(v MemoryEntry) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.UserID)
	size += varint.Int.Size(int(v.Kind))
	size += varint.Int.Size(int(v.Status))
	size += varint.Int.Size(v.Module)
	size += varint.Int.Size(v.Day)
	size += ord.String.Size(v.LectureKey)
	size += ord.String.Size(v.Topic)
	size += ord.String.Size(v.Question)
	size += ord.String.Size(v.RawText)
	size += ord.String.Size(v.NormalizedText)
	size += sizeStringSlice(v.SourceChunkKeys)
	size += ord.String.Size(v.Supersedes)
	size += sizeVector(v.Vector)
	size += sizeStringMap(v.Metadata)
	size += sizeTime(v.CreatedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

// CursorMUS serializes Cursor values.
var CursorMUS = cursorMUS{}

type cursorMUS struct{}

func (s cursorMUS) Marshal(v Cursor, bs []byte) (n int) {
	n = ord.String.Marshal(v.UserID, bs)
	n += varint.Int.Marshal(int(v.Mode), bs[n:])
	n += varint.Int.Marshal(v.Module, bs[n:])
	n += varint.Int.Marshal(v.Day, bs[n:])
	n += ord.String.Marshal(v.LectureKey, bs[n:])
	n += varint.Int.Marshal(v.Sequence, bs[n:])
	n += ord.Bool.Marshal(v.Completed, bs[n:])
	return n
}

func (s cursorMUS) Unmarshal(bs []byte) (v Cursor, n int, err error) {
	var n1 int
	if v.UserID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	var mode int
	if mode, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Mode = Mode(mode)
	if v.Module, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Day, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.LectureKey, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Sequence, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Completed, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (s cursorMUS) Size(v Cursor) (size int) {
	size = ord.String.Size(v.UserID)
	size += varint.Int.Size(int(v.Mode))
	size += varint.Int.Size(v.Module)
	size += varint.Int.Size(v.Day)
	size += ord.String.Size(v.LectureKey)
	size += varint.Int.Size(v.Sequence)
	size += ord.Bool.Size(v.Completed)
	return size
}

// Composite field helpers.

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return nil, n, err
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeVector(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

func marshalStringSlice(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStringSlice(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return nil, n, err
	}
	v = make([]string, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeStringSlice(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

// Maps are serialized with sorted keys so the encoding is deterministic.

func marshalStringMap(v map[string]string, bs []byte) (n int) {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	n = varint.Int.Marshal(len(keys), bs)
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(v[k], bs[n:])
	}
	return n
}

func unmarshalStringMap(bs []byte) (v map[string]string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return nil, n, err
	}
	v = make(map[string]string, length)
	var (
		key, val string
		n1       int
	)
	for i := 0; i < length; i++ {
		if key, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += n1
		if val, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += n1
		v[key] = val
	}
	return v, n, nil
}

func sizeStringMap(v map[string]string) (size int) {
	size = varint.Int.Size(len(v))
	for k, val := range v {
		size += ord.String.Size(k)
		size += ord.String.Size(val)
	}
	return size
}

func marshalTime(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (v time.Time, n int, err error) {
	micro, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func sizeTime(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

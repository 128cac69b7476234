package manifest

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/praxislab/lectern/core"
)

// Violation describes one manifest problem: which entry, which field, why.
type Violation struct {
	File   string // source file of the offending entry, or the manifest itself
	Field  string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.File, v.Field, v.Reason)
}

// Result is the outcome of validating a manifest. Validation never partially
// passes: Lectures is populated only when there are zero violations.
type Result struct {
	Lectures   []*core.Lecture
	Violations []Violation
}

// Valid reports whether the manifest passed validation.
func (r *Result) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns a validation error summarizing the violations, or nil.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return fmt.Errorf("%w: manifest has %d violation(s), first: %s",
		core.ErrValidation, len(r.Violations), r.Violations[0])
}

// Validate checks every manifest entry against the declared source files and
// returns either a normalized lecture list or the full violation set.
// It is read-only: nothing is written regardless of outcome.
//
// Rules:
//   - module, day and lecture_order are positive integers
//   - speaker_type belongs to the closed speaker set
//   - lecture keys are non-empty, well shaped and unique
//   - (module, day, lecture_order) positions are unique across the manifest
//   - the referenced source file exists in files and is non-empty
func Validate(entries []Entry, files fs.FS) *Result {
	result := &Result{}
	if len(entries) == 0 {
		result.Violations = append(result.Violations, Violation{
			File: "manifest", Field: "entries", Reason: "manifest has no lectures",
		})
		return result
	}

	add := func(entry Entry, field, reason string) {
		file := entry.SourceFile
		if file == "" {
			file = fmt.Sprintf("manifest line %d", entry.Line)
		}
		result.Violations = append(result.Violations, Violation{File: file, Field: field, Reason: reason})
	}

	type position struct{ module, day, order int }

	seen := make(map[string]bool, len(entries))
	positions := make(map[position]string, len(entries))
	lectures := make([]*core.Lecture, 0, len(entries))

	for _, entry := range entries {
		lecture := &core.Lecture{
			Key:         entry.LectureKey,
			Title:       entry.Title,
			SpeakerName: entry.SpeakerName,
			SourceFile:  entry.SourceFile,
		}

		if entry.LectureKey == "" {
			add(entry, "lecture_id", "missing lecture key")
		} else if !core.ValidLectureKey(entry.LectureKey) {
			add(entry, "lecture_id", fmt.Sprintf("key %q has invalid characters", entry.LectureKey))
		} else if seen[entry.LectureKey] {
			add(entry, "lecture_id", fmt.Sprintf("duplicate lecture key %q", entry.LectureKey))
		}
		seen[entry.LectureKey] = true

		lecture.Module = positiveInt(entry, "module", entry.Module, add)
		lecture.Day = positiveInt(entry, "day", entry.Day, add)
		lecture.Order = positiveInt(entry, "lecture_order", entry.Order, add)

		// Two lectures at one curriculum position would shadow each other
		// in the order index.
		if lecture.Module > 0 && lecture.Day > 0 && lecture.Order > 0 {
			pos := position{lecture.Module, lecture.Day, lecture.Order}
			if holder, ok := positions[pos]; ok {
				add(entry, "lecture_order", fmt.Sprintf(
					"position module %d day %d order %d already used by %q",
					pos.module, pos.day, pos.order, holder))
			} else {
				positions[pos] = entry.LectureKey
			}
		}

		if entry.Title == "" {
			add(entry, "lecture_title", "missing title")
		}

		speaker, err := core.ParseSpeakerType(entry.SpeakerType)
		if err != nil {
			add(entry, "speaker_type", err.Error())
		}
		lecture.Speaker = speaker

		if entry.SourceFile == "" {
			add(entry, "source_file", "missing source file")
		} else {
			info, err := fs.Stat(files, entry.SourceFile)
			switch {
			case err != nil:
				add(entry, "source_file", "file does not exist")
			case info.Size() == 0:
				add(entry, "source_file", "file is empty")
			}
		}

		lectures = append(lectures, lecture)
	}

	if len(result.Violations) == 0 {
		result.Lectures = lectures
	}
	return result
}

func positiveInt(entry Entry, field, value string, add func(Entry, string, string)) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		add(entry, field, fmt.Sprintf("%q is not an integer", value))
		return 0
	}
	if n < 1 {
		add(entry, field, fmt.Sprintf("%d is not positive", n))
		return 0
	}
	return n
}

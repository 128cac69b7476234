package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Expected manifest columns. The manifest is a CSV file with a header row;
// column order does not matter.
var requiredColumns = []string{
	"lecture_id", "module", "day", "lecture_order",
	"lecture_title", "speaker_name", "speaker_type", "source_file",
}

// Entry is one raw manifest row before validation.
type Entry struct {
	LectureKey  string
	Module      string
	Day         string
	Order       string
	Title       string
	SpeakerName string
	SpeakerType string
	SourceFile  string
	Line        int // 1-based line in the manifest, for violation reports
}

// Load reads manifest entries from CSV. It fails on malformed CSV or a
// missing column; per-field content problems are left to Validate.
func Load(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("manifest is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("manifest is missing column %q", col)
		}
	}

	var entries []Entry
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading manifest row: %w", err)
		}
		line++

		field := func(name string) string {
			i := index[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		entries = append(entries, Entry{
			LectureKey:  field("lecture_id"),
			Module:      field("module"),
			Day:         field("day"),
			Order:       field("lecture_order"),
			Title:       field("lecture_title"),
			SpeakerName: field("speaker_name"),
			SpeakerType: field("speaker_type"),
			SourceFile:  field("source_file"),
			Line:        line,
		})
	}

	return entries, nil
}

// LoadFile reads manifest entries from a CSV file on disk.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()
	return Load(f)
}

package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/praxislab/lectern/core"
)

// Default chunking parameters. Sizes are measured in characters (runes).
const (
	DefaultMinSize      = 1500
	DefaultMaxSize      = 3000
	DefaultOverlapRatio = 0.12

	// longTextThreshold is the length above which a transcript must
	// produce more than one chunk, otherwise chunking is considered
	// broken (usually a transcript with no paragraph structure).
	longTextThreshold = 5000
)

// Config controls chunk boundaries. The zero value is replaced by defaults.
type Config struct {
	MinSize      int     // lower bound of the target length band
	MaxSize      int     // upper bound of the target length band
	OverlapRatio float64 // fraction of MaxSize carried over between consecutive chunks
}

// DefaultConfig returns the standard chunking configuration.
func DefaultConfig() Config {
	return Config{
		MinSize:      DefaultMinSize,
		MaxSize:      DefaultMaxSize,
		OverlapRatio: DefaultOverlapRatio,
	}
}

func (c Config) withDefaults() Config {
	if c.MinSize == 0 {
		c.MinSize = DefaultMinSize
	}
	if c.MaxSize == 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.OverlapRatio == 0 {
		c.OverlapRatio = DefaultOverlapRatio
	}
	return c
}

// Piece is one chunk of a transcript before embedding and storage.
type Piece struct {
	Text      string
	Category  core.ContentCategory
	Sequence  int // 0-based, contiguous
	CharCount int
}

// Split divides a transcript into ordered pieces within the configured
// length band, aligned to paragraph boundaries where possible. Consecutive
// pieces overlap by a bounded window to preserve cross-boundary context.
// Identical input and configuration always produce an identical sequence.
func Split(text string, cfg Config) []Piece {
	cfg = cfg.withDefaults()

	paragraphs := splitParagraphs(text)

	// Paragraphs above the band are pre-split on sentence boundaries.
	var pieces []string
	for _, para := range paragraphs {
		if runeLen(para) > cfg.MaxSize {
			pieces = append(pieces, splitLongParagraph(para, cfg.MaxSize)...)
		} else {
			pieces = append(pieces, para)
		}
	}

	overlap := int(float64(cfg.MaxSize) * cfg.OverlapRatio)
	var (
		result  []Piece
		current string
	)

	emit := func(text string) {
		result = append(result, Piece{
			Text:      text,
			Category:  DetectCategory(text),
			Sequence:  len(result),
			CharCount: runeLen(text),
		})
	}

	for _, piece := range pieces {
		test := piece
		if current != "" {
			test = current + "\n\n" + piece
		}

		if runeLen(test) > cfg.MaxSize && current != "" {
			emit(current)
			// Carry the tail of the emitted chunk into the next one.
			current = tail(current, overlap) + "\n\n" + piece
		} else {
			current = test
		}
	}

	if strings.TrimSpace(current) != "" {
		emit(current)
	}

	return result
}

// SplitChecked is Split plus a sanity check: a transcript longer than the
// long-text threshold must produce more than one chunk.
func SplitChecked(text string, cfg Config) ([]Piece, error) {
	pieces := Split(text, cfg)
	if runeLen(text) > longTextThreshold && len(pieces) <= 1 {
		return nil, fmt.Errorf("%w: text has %d chars but produced %d chunk(s), expected more than one",
			core.ErrValidation, runeLen(text), len(pieces))
	}
	return pieces, nil
}

// splitParagraphs splits text on blank lines.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range blankLinePattern.Split(strings.TrimSpace(text), -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// splitSentences splits text on sentence terminators followed by whitespace.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	var (
		sentences []string
		start     int
		runes     = []rune(text)
	)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		// Consume any run of terminators, then require whitespace.
		j := i
		for j+1 < len(runes) && (runes[j+1] == '.' || runes[j+1] == '!' || runes[j+1] == '?') {
			j++
		}
		if j+1 < len(runes) && isSpace(runes[j+1]) {
			s := strings.TrimSpace(string(runes[start : j+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			start = j + 1
		}
		i = j
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// splitLongParagraph splits a paragraph exceeding maxSize into pieces on
// sentence boundaries. A paragraph that is a single unbreakable sentence is
// returned as is.
func splitLongParagraph(paragraph string, maxSize int) []string {
	if runeLen(paragraph) <= maxSize {
		return []string{paragraph}
	}

	sentences := splitSentences(paragraph)
	if len(sentences) <= 1 {
		return []string{paragraph}
	}

	var (
		pieces  []string
		current string
	)
	for _, sentence := range sentences {
		test := sentence
		if current != "" {
			test = current + " " + sentence
		}
		if runeLen(test) > maxSize && current != "" {
			pieces = append(pieces, current)
			current = sentence
		} else {
			current = test
		}
	}
	if current != "" {
		pieces = append(pieces, current)
	}
	return pieces
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

package chunker

import "github.com/praxislab/lectern/core"

// Stats summarizes how a transcript would chunk, for dry-run previews.
type Stats struct {
	TextLength     int
	ParagraphCount int
	ChunkCount     int
	MinChunkSize   int
	AvgChunkSize   int
	MaxChunkSize   int
	Categories     map[core.ContentCategory]int
}

// Describe computes chunking statistics for a transcript without writing
// anything. It never fails; a degenerate transcript just reports zero chunks.
func Describe(text string, cfg Config) Stats {
	pieces := Split(text, cfg)

	stats := Stats{
		TextLength:     runeLen(text),
		ParagraphCount: len(splitParagraphs(text)),
		ChunkCount:     len(pieces),
		Categories:     make(map[core.ContentCategory]int),
	}

	var total int
	for _, p := range pieces {
		total += p.CharCount
		if stats.MinChunkSize == 0 || p.CharCount < stats.MinChunkSize {
			stats.MinChunkSize = p.CharCount
		}
		if p.CharCount > stats.MaxChunkSize {
			stats.MaxChunkSize = p.CharCount
		}
		stats.Categories[p.Category]++
	}
	if len(pieces) > 0 {
		stats.AvgChunkSize = total / len(pieces)
	}
	return stats
}

package chunker

import (
	"regexp"

	"github.com/praxislab/lectern/core"
)

// blankLinePattern separates paragraphs.
var blankLinePattern = regexp.MustCompile(`\n\s*\n`)

// Transcript marker cues, checked in priority order. Assignment wins over
// example wins over tool; anything unmarked is theory.
var (
	assignmentMarkers = regexp.MustCompile(`(?i)\b(assignment|homework|exercise|deliverable|your task|fill (in|out)|prepare (a|the|your))\b`)
	exampleMarkers    = regexp.MustCompile(`(?i)\b(for (example|instance)|case stud(y|ies)|in (our|their|one) company|we (did|built|tried|rolled out))\b`)
	toolMarkers       = regexp.MustCompile(`(?i)\b(tools?|templates?|checklists?|spreadsheets?|frameworks?|platforms?)\b`)
)

// DetectCategory infers the content category of a chunk from transcript
// markers. Defaults to theory when no marker matches.
func DetectCategory(text string) core.ContentCategory {
	switch {
	case assignmentMarkers.MatchString(text):
		return core.CategoryAssignment
	case exampleMarkers.MatchString(text):
		return core.CategoryExample
	case toolMarkers.MatchString(text):
		return core.CategoryTool
	default:
		return core.CategoryTheory
	}
}

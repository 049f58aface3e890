package finalize

import (
	"regexp"
	"strings"
)

// summaryMarker anchors the comparable content of a candidate summary.
// Anything before it is presentational wrapper left by prior runs.
const summaryMarker = "CUSTOMER:"

var (
	brTagRe     = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlTagRe   = regexp.MustCompile(`<[^>]+>`)
	hSpaceRe    = regexp.MustCompile(`[ \t]+`)
	blankLineRe = regexp.MustCompile(`\n+`)
)

// NormalizeNoteContent reduces rendered notes HTML and plain summary text to
// a common comparable form: <br> variants become newlines, remaining markup
// is stripped, horizontal whitespace runs and blank-line runs collapse.
func NormalizeNoteContent(text string) string {
	if text == "" {
		return ""
	}
	text = brTagRe.ReplaceAllString(text, "\n")
	text = htmlTagRe.ReplaceAllString(text, "")
	text = hSpaceRe.ReplaceAllString(text, " ")
	text = blankLineRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// ExtractStaticBlock cuts a candidate summary down to the content starting
// at the CUSTOMER: marker.
func ExtractStaticBlock(summaryText string) string {
	if idx := strings.Index(summaryText, summaryMarker); idx >= 0 {
		return strings.TrimSpace(summaryText[idx:])
	}
	return strings.TrimSpace(summaryText)
}

// AlreadyApplied reports whether the candidate summary is already recorded
// in the task's notes history. Both sides are normalized identically and the
// check is a substring containment, so surrounding history does not matter.
func AlreadyApplied(existingNotesHTML, candidateSummary string) bool {
	notes := NormalizeNoteContent(existingNotesHTML)
	candidate := NormalizeNoteContent(ExtractStaticBlock(candidateSummary))
	return candidate != "" && strings.Contains(notes, candidate)
}

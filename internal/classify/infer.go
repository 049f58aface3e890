package classify

import (
	"regexp"
	"strings"
)

var (
	phoneCheckRes = []*regexp.Regexp{
		regexp.MustCompile(`\bphone check\b`),
		regexp.MustCompile(`\bjack\b`),
		regexp.MustCompile(`\bfxs\b`),
		regexp.MustCompile(`\bdial tone\b`),
		regexp.MustCompile(`\bno dial tone\b`),
	}
	problemBoldRe  = regexp.MustCompile(`(?i)PROBLEM STATEMENT(?:\s*\(Statement\))?:\s*<b>(.*?)</b>`)
	problemPlainRe = regexp.MustCompile(`(?i)PROBLEM STATEMENT(?:\s*\(Statement\))?:\s*(.+)`)
	htmlTagRe      = regexp.MustCompile(`</?[^>]+>`)
)

// InferJobType derives a job-type label from raw task notes using the layered
// heuristics tuned against historical consultation tickets. The result feeds
// the Classifier; "Unknown" is a valid outcome, not an error.
func InferJobType(rawNotes string) string {
	lower := strings.ToLower(rawNotes)

	if strings.Contains(lower, "courtesy dispatch") || strings.Contains(lower, "no charge") {
		return "Consultation"
	}

	for _, re := range phoneCheckRes {
		if re.MatchString(lower) {
			return "Phone Check"
		}
	}

	if containsAny(lower, "go live", "activate", "turn up") {
		return "Go-Live"
	}
	if containsAny(lower, "speed test", "throughput", "latency") {
		return "Speed Test"
	}
	if containsAny(lower, "nid", "modem swap") {
		return "NID/IW/CopperTest"
	}

	if m := problemBoldRe.FindStringSubmatch(rawNotes); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := problemPlainRe.FindStringSubmatch(rawNotes); m != nil {
		text := strings.TrimSpace(htmlTagRe.ReplaceAllString(m[1], ""))
		if runes := []rune(text); len(runes) > 100 {
			text = string(runes[:100])
		}
		return strings.TrimSpace(text)
	}

	// Last resort: an early line mentioning the ONT is usually the job type.
	lines := strings.Split(rawNotes, "\n")
	if len(lines) > 15 {
		lines = lines[:15]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(strings.ToLower(trimmed), "ont") && len(trimmed) > 3 && len(trimmed) < 100 {
			return trimmed
		}
	}

	return "Unknown"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

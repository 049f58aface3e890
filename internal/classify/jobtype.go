package classify

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"consultation-triage/config"
	"consultation-triage/pkg/normalize"
)

// Classifier maps raw job-type text to a billing category by fuzzy
// partial-ratio matching against configured exemplar sets. It is a pure
// function of its input and configuration.
type Classifier struct {
	free      []string
	billable  []string
	threshold int
}

// NewClassifier normalizes the configured exemplars once up front.
func NewClassifier(cfg config.ClassifierConfig) *Classifier {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = 90
	}
	return &Classifier{
		free:      normalizeSet(cfg.FreeKeywords),
		billable:  normalizeSet(cfg.BillableKeywords),
		threshold: threshold,
	}
}

// Classify assigns a category to raw job-type text. Empty text short-circuits
// to Free with a full score, the historical default for blank consultation
// notes. The Free set is evaluated first: when both sets clear the threshold,
// Free wins.
func (c *Classifier) Classify(raw string) JobTypeResult {
	if raw == "" {
		return JobTypeResult{
			RawText:        raw,
			Category:       CategoryFree,
			MatchedKeyword: "(blank)",
			Score:          100,
		}
	}

	norm := normalize.String(raw)
	res := JobTypeResult{RawText: raw, NormalizedText: norm, Category: CategoryUnknown}

	if kw, score := bestMatch(norm, c.free); score > c.threshold {
		res.Category = CategoryFree
		res.MatchedKeyword = kw
		res.Score = score
		return res
	}
	if kw, score := bestMatch(norm, c.billable); score > c.threshold {
		res.Category = CategoryBillable
		res.MatchedKeyword = kw
		res.Score = score
		return res
	}
	return res
}

// bestMatch returns the exemplar with the highest partial-ratio score.
func bestMatch(query string, candidates []string) (string, int) {
	best, bestScore := "", 0
	for _, cand := range candidates {
		if score := fuzzy.PartialRatio(query, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best, bestScore
}

func normalizeSet(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if n := normalize.String(kw); n != "" {
			out = append(out, n)
		}
	}
	return out
}

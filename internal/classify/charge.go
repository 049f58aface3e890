package classify

import (
	"regexp"
	"strconv"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"consultation-triage/config"
	"consultation-triage/internal/model"
	"consultation-triage/pkg/normalize"
)

var (
	footageRe  = regexp.MustCompile(`(\d+)\s*(?:ft|feet|foot)\b`)
	quantityRe = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\b`)
)

var spelledNumbers = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// quantityWindow bounds how far around a matched keyword the quantity
// extractor looks.
const quantityWindow = 40

// ChargeDetector scans work-order notes for billable line items.
type ChargeDetector struct {
	noCharge  []string
	threshold int
	types     []config.ChargeType
}

func NewChargeDetector(cfg config.ChargesConfig) *ChargeDetector {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = 90
	}
	return &ChargeDetector{
		noCharge:  normalizeSet(cfg.NoChargeKeywords),
		threshold: threshold,
		types:     cfg.Types,
	}
}

// Detect returns the charges found in the combined note text, at most one per
// configured type, in configuration order. A no-charge phrase anywhere in the
// notes overrides all charge detection and yields an empty list.
func (d *ChargeDetector) Detect(notes string) []model.Charge {
	norm := normalize.String(notes)
	if norm == "" {
		return nil
	}

	for _, phrase := range d.noCharge {
		if fuzzy.PartialRatio(phrase, norm) >= d.threshold {
			return nil
		}
	}

	var charges []model.Charge
	for _, ct := range d.types {
		for _, kw := range ct.Keywords {
			kwNorm := normalize.String(kw)
			if kwNorm == "" || fuzzy.PartialRatio(kwNorm, norm) < d.threshold {
				continue
			}

			var qty float64
			if ct.Unit == "ft" {
				qty = maxFootage(norm)
			} else {
				qty = quantityNear(norm, kwNorm)
			}

			charges = append(charges, model.Charge{
				Label:          ct.Label,
				UnitPrice:      ct.UnitPrice,
				Quantity:       qty,
				Total:          qty * ct.UnitPrice,
				MatchedKeyword: kw,
			})
			break // one charge per type per call
		}
	}
	return charges
}

// maxFootage returns the largest "<n> ft|feet|foot" figure in the text, or 0.
func maxFootage(text string) float64 {
	best := 0.0
	for _, m := range footageRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > best {
			best = v
		}
	}
	return best
}

// quantityNear extracts a digit or spelled-out quantity from a bounded window
// around the keyword's literal occurrence, defaulting to 1. The fuzzy scorer
// carries no match position, so the window anchors on the closest literal hit
// and falls back to the whole text when the keyword never appears verbatim.
func quantityNear(text, keyword string) float64 {
	window := text
	if idx := strings.Index(text, keyword); idx >= 0 {
		start := idx - quantityWindow
		if start < 0 {
			start = 0
		}
		end := idx + len(keyword) + quantityWindow
		if end > len(text) {
			end = len(text)
		}
		window = text[start:end]
	}

	m := quantityRe.FindStringSubmatch(window)
	if m == nil {
		return 1
	}
	if v, ok := spelledNumbers[m[1]]; ok {
		return v
	}
	if v, err := strconv.ParseFloat(m[1], 64); err == nil {
		return v
	}
	return 1
}

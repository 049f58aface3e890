package summary

import (
	"regexp"
	"strings"
)

var (
	damageRe      = regexp.MustCompile(`damage caused by\s+([^.,\n]+)`)
	responsibleRe = regexp.MustCompile(`([^.,\n]+?)\s+responsible`)
)

// responsibleParty determines who bears the dispatch cost from the combined
// note text. Default is the customer; a "damage caused by X" phrase or an
// "X responsible" phrase names a party; a Brightspeed mention anywhere wins
// over both, even a named party found earlier.
func responsibleParty(combined string) string {
	text := strings.ToLower(combined)
	responsible := "Customer"

	if m := damageRe.FindStringSubmatch(text); m != nil {
		responsible = strings.TrimSpace(m[1])
	} else if m := responsibleRe.FindStringSubmatch(text); m != nil {
		responsible = strings.TrimSpace(m[1])
	}

	if strings.Contains(text, "brightspeed") || strings.Contains(text, "bright speed") {
		responsible = "Brightspeed"
	}
	return responsible
}

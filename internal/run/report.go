package run

import (
	"fmt"
	"sort"
	"strings"
)

// majorJobTypes are the labels tallied under their own bucket; everything
// else folds into Blank, Unknown, or Other.
var majorJobTypes = []string{
	"Consultation",
	"Phone Check",
	"Go-Live",
	"Speed Test",
	"NID/IW/CopperTest",
}

// JobTypeTally buckets the run's inferred job types for the end-of-run
// report. Other holds real but uncommon labels, keyed by label.
type JobTypeTally struct {
	Major   map[string]int
	Blank   int
	Unknown int
	Other   map[string]int
}

// TallyJobTypes aggregates the job types seen across one run's results.
func TallyJobTypes(results []TaskResult) JobTypeTally {
	tally := JobTypeTally{
		Major: make(map[string]int),
		Other: make(map[string]int),
	}
	major := make(map[string]bool, len(majorJobTypes))
	for _, label := range majorJobTypes {
		major[label] = true
	}
	for _, res := range results {
		switch {
		case strings.TrimSpace(res.JobType) == "":
			tally.Blank++
		case res.JobType == "Unknown":
			tally.Unknown++
		case major[res.JobType]:
			tally.Major[res.JobType]++
		default:
			tally.Other[res.JobType]++
		}
	}
	return tally
}

// String renders the tally in a stable order for logs and the console.
func (t JobTypeTally) String() string {
	var b strings.Builder
	b.WriteString("job types:\n")
	for _, label := range majorJobTypes {
		if n := t.Major[label]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", label, n)
		}
	}
	if t.Blank > 0 {
		fmt.Fprintf(&b, "  Blank: %d\n", t.Blank)
	}
	if t.Unknown > 0 {
		fmt.Fprintf(&b, "  Unknown: %d\n", t.Unknown)
	}
	if len(t.Other) > 0 {
		labels := make([]string, 0, len(t.Other))
		for label := range t.Other {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		b.WriteString("  Other:\n")
		for _, label := range labels {
			fmt.Fprintf(&b, "    %s: %d\n", label, t.Other[label])
		}
	}
	return b.String()
}

package finalize

import (
	"consultation-triage/internal/classify"
	"consultation-triage/internal/model"
)

// Decide maps a classification result onto exactly one finalization path.
// There is no "both" outcome: the classifier checks the Free set first, so a
// Free result already won any tie with Billable.
func Decide(res classify.JobTypeResult) model.Path {
	switch res.Category {
	case classify.CategoryFree:
		return model.PathFree
	case classify.CategoryBillable:
		return model.PathBillable
	default:
		return model.PathNotesOnly
	}
}

// FreeNote is the short note written for a free job instead of a full
// dispatch summary.
func FreeNote(jobType string) string {
	return jobType + ", no charge"
}

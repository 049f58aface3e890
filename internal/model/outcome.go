package model

// Path is the finalization path chosen for a task.
type Path int

const (
	PathFree Path = iota
	PathBillable
	PathNotesOnly
)

func (p Path) String() string {
	switch p {
	case PathFree:
		return "Free"
	case PathBillable:
		return "Billable"
	default:
		return "NotesOnly"
	}
}

// Result is the terminal state of one finalization attempt.
type Result int

const (
	ResultSucceeded Result = iota
	ResultSkipped
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultSucceeded:
		return "Succeeded"
	case ResultSkipped:
		return "Skipped"
	default:
		return "Failed"
	}
}

// Outcome records how one task ended, produced once per task per run.
type Outcome struct {
	Path       Path
	Result     Result
	SkipReason string
	Diagnostic string // artifact path when a failed write captured one
}

package summary

import "errors"

// ErrNoSummary reports that a dispatch summary could not be built for the
// task. Callers skip the task rather than fail the run.
var ErrNoSummary = errors.New("no dispatch summary available")

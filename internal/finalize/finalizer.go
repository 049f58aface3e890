package finalize

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"consultation-triage/config"
	"consultation-triage/internal/model"
	"consultation-triage/internal/portal"
	pkgLog "consultation-triage/pkg/log"
)

// RetryPolicy bounds completion-write attempts. The zero value is not valid;
// use DefaultRetryPolicy or build one from config.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy retries a failed write exactly once.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 2, Backoff: time.Second}

// Finalizer applies the chosen path to an opened task: expands the editor,
// guards against double-writes, writes notes and completion toggles, and
// captures a diagnostic artifact when every attempt fails.
type Finalizer struct {
	repo   portal.Repository
	l      pkgLog.Logger
	policy RetryPolicy
	dryRun bool
}

func NewFinalizer(repo portal.Repository, l pkgLog.Logger, cfg config.FinalizeConfig, dryRun bool) *Finalizer {
	policy := RetryPolicy{MaxAttempts: cfg.MaxAttempts, Backoff: cfg.Backoff}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if policy.Backoff <= 0 {
		policy.Backoff = DefaultRetryPolicy.Backoff
	}
	return &Finalizer{repo: repo, l: l, policy: policy, dryRun: dryRun}
}

// Finalize drives a single opened task to a terminal outcome. The task is
// assumed to be on screen; taskID addresses its notes editor. content is the
// rendered summary for billable and notes-only paths and the short free note
// for the free path.
func (f *Finalizer) Finalize(ctx context.Context, task model.Task, path model.Path, content string) model.Outcome {
	// Editor expansion can fail on layout variants where the notes field is
	// already visible, so a failure here is logged and not terminal.
	taskID, err := f.repo.TaskID(ctx)
	if err != nil {
		f.l.Errorf(ctx, "finalize: resolve task id for %q: %v", task.URL, err)
		if taskID = task.ID; taskID == "" {
			taskID = "unresolved"
		}
		return f.fail(ctx, taskID, path)
	}
	if err := f.repo.ExpandTask(ctx, taskID); err != nil {
		f.l.Warnf(ctx, "finalize: expand task %s: %v", taskID, err)
	}

	if path != model.PathFree {
		history, err := f.repo.TaskNotesHistory(ctx)
		if err != nil {
			f.l.Warnf(ctx, "finalize: read notes history for task %s: %v", taskID, err)
		} else if AlreadyApplied(history, content) {
			f.l.Infof(ctx, "finalize: task %s already carries this summary, skipping", taskID)
			return model.Outcome{Path: path, Result: model.ResultSkipped, SkipReason: "summary already recorded"}
		}
	}

	markCompleted, spawnBilling := f.writeFlags(path)

	var lastErr error
	for attempt := 1; attempt <= f.policy.MaxAttempts; attempt++ {
		lastErr = f.repo.WriteCompletion(ctx, taskID, content, markCompleted, spawnBilling)
		if lastErr == nil {
			f.l.Infof(ctx, "finalize: task %s written, path=%s completed=%t billing=%t",
				taskID, path, markCompleted, spawnBilling)
			return model.Outcome{Path: path, Result: model.ResultSucceeded}
		}
		f.l.Warnf(ctx, "finalize: write attempt %d/%d for task %s: %v",
			attempt, f.policy.MaxAttempts, taskID, lastErr)
		if attempt < f.policy.MaxAttempts {
			select {
			case <-ctx.Done():
				return f.fail(ctx, taskID, path)
			case <-time.After(f.policy.Backoff):
			}
		}
	}
	f.l.Errorf(ctx, "finalize: task %s: %v: %v", taskID, ErrWriteFailed, lastErr)
	return f.fail(ctx, taskID, path)
}

// writeFlags maps a path onto the completion-form toggles. Dry-run demotes
// every path to a notes-only write so nothing is marked complete.
func (f *Finalizer) writeFlags(path model.Path) (markCompleted, spawnBilling bool) {
	if f.dryRun {
		return false, false
	}
	switch path {
	case model.PathFree:
		return true, false
	case model.PathBillable:
		return true, true
	default:
		return false, false
	}
}

// fail captures a diagnostic artifact keyed by the resolved task id, the
// wall clock, and a uuid suffix to keep repeated failures distinct.
func (f *Finalizer) fail(ctx context.Context, taskID string, path model.Path) model.Outcome {
	name := fmt.Sprintf("task_%s_fail_%s_%s",
		taskID, time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	artifact, err := f.repo.SaveDiagnostic(name)
	if err != nil {
		f.l.Warnf(ctx, "finalize: capture diagnostic for task %s: %v", taskID, err)
	}
	return model.Outcome{Path: path, Result: model.ResultFailed, Diagnostic: artifact}
}

package run

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"consultation-triage/internal/classify"
	"consultation-triage/internal/finalize"
	"consultation-triage/internal/model"
	"consultation-triage/internal/portal"
	"consultation-triage/internal/summary"
	pkgLog "consultation-triage/pkg/log"
)

// TaskResult is one task's journey through the run: the inferred job type,
// any detected billable line items, the terminal outcome, and the error when
// the task never reached one. Task carries the portal's resolved task id.
type TaskResult struct {
	Task    model.Task
	JobType string
	Charges []model.Charge
	Outcome model.Outcome
	Err     error
}

// Report is the aggregate a run always ends with, even under partial failure.
type Report struct {
	Processed int
	Succeeded int
	Skipped   int
	Failed    int
	Results   []TaskResult
	Errors    []error
}

// Orchestrator walks the due-task queue sequentially inside one session.
// Each task runs to a terminal state before the next starts; per-task panics
// and errors are captured with context and never abort the run.
type Orchestrator struct {
	repo       portal.Repository
	classifier *classify.Classifier
	builder    *summary.Builder
	finalizer  *finalize.Finalizer
	l          pkgLog.Logger
}

func NewOrchestrator(repo portal.Repository, classifier *classify.Classifier, builder *summary.Builder, finalizer *finalize.Finalizer, l pkgLog.Logger) *Orchestrator {
	return &Orchestrator{repo: repo, classifier: classifier, builder: builder, finalizer: finalizer, l: l}
}

// Run processes every due consultation task. Only a failure to read the task
// feed itself is returned as an error; everything after that is folded into
// the report.
func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	tasks, err := o.repo.DueConsultationTasks(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read task feed: %w", err)
	}
	o.l.Infof(ctx, "run: %d due consultation tasks", len(tasks))

	var report Report
	for _, task := range tasks {
		if ctx.Err() != nil {
			o.l.Warnf(ctx, "run: canceled after %d of %d tasks", report.Processed, len(tasks))
			break
		}
		res := o.processTask(ctx, task)
		report.Processed++
		report.Results = append(report.Results, res)
		switch {
		case res.Err != nil:
			report.Failed++
			report.Errors = append(report.Errors,
				fmt.Errorf("task %s (%s): %w", taskLabel(res.Task), task.Description, res.Err))
		case res.Outcome.Result == model.ResultSucceeded:
			report.Succeeded++
		case res.Outcome.Result == model.ResultSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}
	o.l.Infof(ctx, "run: processed=%d succeeded=%d skipped=%d failed=%d",
		report.Processed, report.Succeeded, report.Skipped, report.Failed)
	return report, nil
}

// processTask drives one task through classify → summarize → finalize. The
// deferred recover is the failure-isolation boundary: one bad task cannot
// take down the run.
func (o *Orchestrator) processTask(ctx context.Context, task model.Task) (res TaskResult) {
	res.Task = task
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
			o.l.Errorf(ctx, "run: task %s panicked: %v", task.ID, r)
		}
	}()

	if err := o.repo.OpenTask(ctx, task.URL); err != nil {
		res.Err = fmt.Errorf("open task: %w", err)
		return res
	}
	// The feed row carries no identifier; the hidden field on the detail
	// view is authoritative, and everything downstream (diagnostics, the
	// status snapshot, error entries) keys off it.
	if id, err := o.repo.TaskID(ctx); err == nil {
		res.Task.ID = id
	} else {
		o.l.Warnf(ctx, "run: resolve task id for %s: %v", task.URL, err)
	}
	notes, err := o.repo.TaskNotes(ctx)
	if err != nil {
		res.Err = fmt.Errorf("read task notes: %w", err)
		return res
	}

	res.JobType = classify.InferJobType(notes)
	verdict := o.classifier.Classify(res.JobType)
	path := finalize.Decide(verdict)
	o.l.Infof(ctx, "run: task %s job_type=%q category=%s path=%s score=%d",
		taskLabel(res.Task), res.JobType, verdict.Category, path, verdict.Score)

	var content string
	switch path {
	case model.PathFree:
		content = finalize.FreeNote(res.JobType)
	default:
		built, err := o.builder.Build(ctx)
		if errors.Is(err, summary.ErrNoSummary) {
			o.l.Infof(ctx, "run: task %s skipped: %v", taskLabel(res.Task), err)
			res.Outcome = model.Outcome{Path: path, Result: model.ResultSkipped, SkipReason: err.Error()}
			return res
		}
		if err != nil {
			res.Err = fmt.Errorf("build summary: %w", err)
			return res
		}
		content = built.Text
		res.Charges = built.Charges
		for _, c := range res.Charges {
			o.l.Infof(ctx, "run: task %s charge %s x%.0f = %.2f (matched %q)",
				taskLabel(res.Task), c.Label, c.Quantity, c.Total, c.MatchedKeyword)
		}
	}

	res.Outcome = o.finalizer.Finalize(ctx, res.Task, path, content)
	return res
}

// taskLabel names a task in logs and error entries: the resolved portal id
// when available, the feed URL before resolution.
func taskLabel(task model.Task) string {
	if task.ID != "" {
		return task.ID
	}
	return task.URL
}

package portal

import (
	"context"
	"fmt"
)

// WriteCompletion fills the task's notes field, toggles the completion and
// billing indicators as requested, and submits the form. Indicators already
// set are left alone so resubmission cannot untoggle them.
func (r *implRepository) WriteCompletion(ctx context.Context, taskID, notes string, markCompleted, spawnBilling bool) error {
	notesEl, err := r.session.WaitFor(ctx, "#txtNotes"+taskID, r.cfg.PageTimeout)
	if err != nil {
		return fmt.Errorf("notes field: %w", err)
	}
	if err := notesEl.Clear(); err != nil {
		return fmt.Errorf("notes field: %w", err)
	}
	if err := notesEl.Fill(notes); err != nil {
		return fmt.Errorf("notes field: %w", err)
	}

	if markCompleted {
		if err := r.checkIfNeeded(ctx, "#completedcheck"+taskID); err != nil {
			return fmt.Errorf("completed indicator: %w", err)
		}
	}
	if spawnBilling {
		if err := r.checkIfNeeded(ctx, selSpawnBilling); err != nil {
			return fmt.Errorf("billing indicator: %w", err)
		}
	}

	submit, err := r.session.WaitFor(ctx, "#sub_"+taskID, r.cfg.PageTimeout)
	if err != nil {
		return fmt.Errorf("submit button: %w", err)
	}
	return submit.Click()
}

func (r *implRepository) checkIfNeeded(ctx context.Context, selector string) error {
	el, err := r.session.WaitFor(ctx, selector, r.cfg.PageTimeout)
	if err != nil {
		return err
	}
	checked, err := el.IsChecked()
	if err != nil {
		return err
	}
	if checked {
		return nil
	}
	return el.Click()
}

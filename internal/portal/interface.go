package portal

import (
	"context"

	"consultation-triage/internal/model"
)

// Repository is the read/write surface of the ticketing portal. Everything
// the engine knows about the portal's DOM lives behind this interface so the
// classification and finalization logic stays driver-free.
type Repository interface {
	// DueConsultationTasks scans the task feed for consultation rows due on
	// or before today.
	DueConsultationTasks(ctx context.Context) ([]model.Task, error)

	// OpenTask navigates to a task detail view.
	OpenTask(ctx context.Context, taskURL string) error

	// TaskNotes returns the raw Notes textarea of the currently open task.
	TaskNotes(ctx context.Context) (string, error)

	// TaskID reads the hidden task identifier of the currently open task.
	TaskID(ctx context.Context) (string, error)

	// CustomerInfo resolves customer name, CID and ticket number from the
	// currently open task detail view.
	CustomerInfo(ctx context.Context) (model.CustomerInfo, error)

	// WorkOrderRows lists the work-order table rows on a customer page.
	WorkOrderRows(ctx context.Context, customerURL string) ([]model.WorkOrderRow, error)

	// WorkOrder opens a work order and reads its status, time fields and
	// note fields. Reads are cached per run, keyed by URL.
	WorkOrder(ctx context.Context, woURL string) (model.WorkOrder, error)

	// ExpandTask ensures the task's detail form is visibly expanded.
	ExpandTask(ctx context.Context, taskID string) error

	// TaskNotesHistory returns the rendered notes-history HTML of the
	// currently open task, used for idempotency checks.
	TaskNotesHistory(ctx context.Context) (string, error)

	// WriteCompletion fills the notes field and submits the task form.
	// markCompleted toggles the completed indicator when not already set;
	// spawnBilling additionally toggles the billing-task indicator.
	WriteCompletion(ctx context.Context, taskID, notes string, markCompleted, spawnBilling bool) error

	// SaveDiagnostic captures a failure artifact and returns its path.
	SaveDiagnostic(name string) (string, error)
}

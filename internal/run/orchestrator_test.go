package run_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"consultation-triage/config"
	"consultation-triage/internal/classify"
	"consultation-triage/internal/finalize"
	"consultation-triage/internal/model"
	"consultation-triage/internal/run"
	"consultation-triage/internal/summary"
)

type writeRecord struct {
	taskID        string
	notes         string
	markCompleted bool
	spawnBilling  bool
}

// fakeRepo is a stateful portal double: it serves a task feed, keys notes
// off the last opened task URL, and records completion writes.
type fakeRepo struct {
	tasks      []model.Task
	notesByURL map[string]string
	workOrder  model.WorkOrder
	panicOn    string

	opened  []string
	current string
	writes  []writeRecord
	history string
}

func (f *fakeRepo) DueConsultationTasks(ctx context.Context) ([]model.Task, error) {
	return f.tasks, nil
}

func (f *fakeRepo) OpenTask(ctx context.Context, taskURL string) error {
	if taskURL == f.panicOn {
		panic("detached frame")
	}
	f.opened = append(f.opened, taskURL)
	f.current = taskURL
	return nil
}

func (f *fakeRepo) TaskNotes(ctx context.Context) (string, error) {
	return f.notesByURL[f.current], nil
}

// TaskID mimics the hidden field on the detail view: the numeric id is only
// knowable after the task has been opened.
func (f *fakeRepo) TaskID(ctx context.Context) (string, error) {
	return "n" + strings.TrimPrefix(f.current, "http://x/task/"), nil
}

func (f *fakeRepo) CustomerInfo(ctx context.Context) (model.CustomerInfo, error) {
	return model.CustomerInfo{
		CustomerName: "ACME Corp",
		CustomerID:   "10042",
		TicketNumber: "55501",
		CustomerURL:  "http://portal.example.com/customer/10042",
	}, nil
}

func (f *fakeRepo) WorkOrderRows(ctx context.Context, customerURL string) ([]model.WorkOrderRow, error) {
	return []model.WorkOrderRow{
		{Number: 300, Description: "Dispatch for Ticket #55501", URL: "http://portal.example.com/wo/300"},
	}, nil
}

func (f *fakeRepo) WorkOrder(ctx context.Context, woURL string) (model.WorkOrder, error) {
	return f.workOrder, nil
}

func (f *fakeRepo) ExpandTask(ctx context.Context, taskID string) error { return nil }

func (f *fakeRepo) TaskNotesHistory(ctx context.Context) (string, error) { return f.history, nil }

func (f *fakeRepo) WriteCompletion(ctx context.Context, taskID, notes string, markCompleted, spawnBilling bool) error {
	f.writes = append(f.writes, writeRecord{taskID, notes, markCompleted, spawnBilling})
	return nil
}

func (f *fakeRepo) SaveDiagnostic(name string) (string, error) { return "/tmp/" + name + ".png", nil }

func completedWorkOrder() model.WorkOrder {
	return model.WorkOrder{
		URL:           "http://portal.example.com/wo/300",
		Status:        "complete",
		ArrivalDate:   "2024-01-01",
		ArrivalTime:   "8:00",
		DepartureDate: "2024-01-01",
		DepartureTime: "11:10",
		Notes: model.WorkOrderNotes{
			AdditionalNotes: "Replaced the NID and verified sync.",
		},
	}
}

func newOrchestrator(repo *fakeRepo) *run.Orchestrator {
	classifier := classify.NewClassifier(config.ClassifierConfig{
		FreeKeywords:     []string{"consultation"},
		BillableKeywords: []string{"nid"},
		Threshold:        90,
	})
	detector := classify.NewChargeDetector(config.ChargesConfig{
		NoChargeKeywords: []string{"no charge"},
		Threshold:        90,
		Types: []config.ChargeType{
			{Label: "Fiber", Keywords: []string{"ran fiber"}, UnitPrice: 0.85, Unit: "ft"},
		},
	})
	builder := summary.NewBuilder(repo, detector, nopLogger{})
	finalizer := finalize.NewFinalizer(repo, nopLogger{},
		config.FinalizeConfig{MaxAttempts: 2, Backoff: time.Millisecond}, false)
	return run.NewOrchestrator(repo, classifier, builder, finalizer, nopLogger{})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Free Task Gets Short Note", func(t *testing.T) {
		repo := &fakeRepo{
			tasks:      []model.Task{{URL: "http://x/task/1", Description: "Consultation"}},
			notesByURL: map[string]string{"http://x/task/1": "Courtesy dispatch per account manager."},
		}
		report, err := newOrchestrator(repo).Run(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Succeeded != 1 {
			t.Fatalf("expected 1 success, got %+v", report)
		}
		if len(repo.writes) != 1 || repo.writes[0].notes != "Consultation, no charge" {
			t.Errorf("unexpected writes: %+v", repo.writes)
		}
		if repo.writes[0].spawnBilling {
			t.Error("free path must not spawn billing")
		}
		if report.Results[0].Task.ID != "n1" {
			t.Errorf("result must carry the id resolved from the page, got %q", report.Results[0].Task.ID)
		}
	})

	t.Run("Billable Task Writes Summary And Spawns Billing", func(t *testing.T) {
		repo := &fakeRepo{
			tasks:      []model.Task{{ID: "2", URL: "http://x/task/2", Description: "Consultation"}},
			notesByURL: map[string]string{"http://x/task/2": "NID swap requested by field tech."},
			workOrder:  completedWorkOrder(),
		}
		report, err := newOrchestrator(repo).Run(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Succeeded != 1 {
			t.Fatalf("expected 1 success, got %+v", report)
		}
		w := repo.writes[0]
		if !strings.HasPrefix(w.notes, "CUSTOMER: ACME Corp\n") {
			t.Errorf("billable write should carry the summary block, got %q", w.notes)
		}
		if !w.markCompleted || !w.spawnBilling {
			t.Errorf("billable flags wrong: %+v", w)
		}
	})

	t.Run("Pending Work Order Skips Task", func(t *testing.T) {
		wo := completedWorkOrder()
		wo.Status = "Pending"
		repo := &fakeRepo{
			tasks:      []model.Task{{ID: "3", URL: "http://x/task/3"}},
			notesByURL: map[string]string{"http://x/task/3": "NID swap requested."},
			workOrder:  wo,
		}
		report, err := newOrchestrator(repo).Run(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Skipped != 1 || len(repo.writes) != 0 {
			t.Errorf("expected clean skip with no writes, got %+v writes=%d", report, len(repo.writes))
		}
		if report.Results[0].Outcome.SkipReason == "" {
			t.Error("skip must carry a reason")
		}
	})

	t.Run("Panic Is Isolated To Its Task", func(t *testing.T) {
		repo := &fakeRepo{
			tasks: []model.Task{
				{URL: "http://x/task/4"},
				{URL: "http://x/task/5"},
			},
			notesByURL: map[string]string{
				"http://x/task/4": "does not matter",
				"http://x/task/5": "Courtesy dispatch.",
			},
			panicOn: "http://x/task/4",
		}
		report, err := newOrchestrator(repo).Run(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Processed != 2 || report.Failed != 1 || report.Succeeded != 1 {
			t.Fatalf("expected one failure and one success, got %+v", report)
		}
		// The panicking task never resolved an id, so its error entry must
		// fall back to the feed URL rather than an empty label.
		if len(report.Errors) != 1 || !strings.Contains(report.Errors[0].Error(), "http://x/task/4") {
			t.Errorf("error list must carry task context, got %v", report.Errors)
		}
	})

	t.Run("Charges Carried On Result", func(t *testing.T) {
		wo := completedWorkOrder()
		wo.Notes.AdditionalNotes = "NID replaced, ran fiber 120 ft to the pole"
		repo := &fakeRepo{
			tasks:      []model.Task{{URL: "http://x/task/9"}},
			notesByURL: map[string]string{"http://x/task/9": "NID swap requested."},
			workOrder:  wo,
		}
		report, err := newOrchestrator(repo).Run(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res := report.Results[0]
		if len(res.Charges) != 1 || res.Charges[0].Quantity != 120 {
			t.Fatalf("expected the fiber charge on the result, got %+v", res.Charges)
		}
		if c := res.Charges[0]; c.Total != c.Quantity*c.UnitPrice {
			t.Errorf("charge total must be quantity times unit price: %+v", c)
		}
	})

	t.Run("Unknown Job Type Writes Notes Only", func(t *testing.T) {
		repo := &fakeRepo{
			tasks:      []model.Task{{ID: "6", URL: "http://x/task/6"}},
			notesByURL: map[string]string{"http://x/task/6": "nothing recognizable here"},
			workOrder:  completedWorkOrder(),
		}
		report, err := newOrchestrator(repo).Run(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Succeeded != 1 {
			t.Fatalf("expected success, got %+v", report)
		}
		w := repo.writes[0]
		if w.markCompleted || w.spawnBilling {
			t.Errorf("notes-only path must not toggle completion, got %+v", w)
		}
	})
}

func TestTallyJobTypes(t *testing.T) {
	results := []run.TaskResult{
		{JobType: "Consultation"},
		{JobType: "Consultation"},
		{JobType: "Phone Check"},
		{JobType: "Unknown"},
		{JobType: ""},
		{JobType: "Fiber cut repair"},
	}
	tally := run.TallyJobTypes(results)
	if tally.Major["Consultation"] != 2 || tally.Major["Phone Check"] != 1 {
		t.Errorf("major buckets wrong: %+v", tally.Major)
	}
	if tally.Blank != 1 || tally.Unknown != 1 {
		t.Errorf("blank/unknown wrong: blank=%d unknown=%d", tally.Blank, tally.Unknown)
	}
	if tally.Other["Fiber cut repair"] != 1 {
		t.Errorf("other bucket wrong: %+v", tally.Other)
	}
}

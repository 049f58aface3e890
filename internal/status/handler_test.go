package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"consultation-triage/internal/model"
	"consultation-triage/internal/run"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, arg ...any)                    {}
func (nopLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (nopLogger) Info(ctx context.Context, arg ...any)                     {}
func (nopLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (nopLogger) Warn(ctx context.Context, arg ...any)                     {}
func (nopLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (nopLogger) Error(ctx context.Context, arg ...any)                    {}
func (nopLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (nopLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (nopLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (nopLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (nopLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (nopLogger) Panic(ctx context.Context, arg ...any)                    {}
func (nopLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

func newTestServer(t *testing.T, snapshot SnapshotFunc) *Server {
	t.Helper()
	srv, err := New(Config{
		Logger:   nopLogger{},
		Port:     9464,
		Mode:     gin.TestMode,
		Snapshot: snapshot,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func TestValidate(t *testing.T) {
	if _, err := New(Config{Port: 9464, Mode: gin.TestMode, Snapshot: func() run.Report { return run.Report{} }}); err == nil {
		t.Error("missing logger must be rejected")
	}
	if _, err := New(Config{Logger: nopLogger{}, Mode: gin.TestMode, Snapshot: func() run.Report { return run.Report{} }}); err == nil {
		t.Error("missing port must be rejected")
	}
	if _, err := New(Config{Logger: nopLogger{}, Port: 9464, Mode: gin.TestMode}); err == nil {
		t.Error("missing snapshot source must be rejected")
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, func() run.Report { return run.Report{} })
	rec := httptest.NewRecorder()
	srv.gin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRunSnapshot(t *testing.T) {
	srv := newTestServer(t, func() run.Report {
		return run.Report{
			Processed: 3,
			Succeeded: 1,
			Skipped:   1,
			Failed:    1,
			Results: []run.TaskResult{
				{Task: model.Task{ID: "1"}, JobType: "Consultation",
					Outcome: model.Outcome{Path: model.PathFree, Result: model.ResultSucceeded}},
				{Task: model.Task{ID: "2"}, JobType: "NID/IW/CopperTest",
					Charges: []model.Charge{{Label: "Fiber", Quantity: 120, Total: 102}},
					Outcome: model.Outcome{Path: model.PathBillable, Result: model.ResultSkipped, SkipReason: "summary already recorded"}},
				{Task: model.Task{ID: "3"}, Err: errors.New("element wait timed out")},
			},
		}
	})

	rec := httptest.NewRecorder()
	srv.gin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/run", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data struct {
			Processed int `json:"processed"`
			Results   []struct {
				TaskID     string `json:"task_id"`
				Result     string `json:"result"`
				SkipReason string `json:"skip_reason"`
				Error      string `json:"error"`
				Charges    []struct {
					Label    string  `json:"label"`
					Quantity float64 `json:"quantity"`
					Total    float64 `json:"total"`
				} `json:"charges"`
			} `json:"results"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.Processed != 3 || len(body.Data.Results) != 3 {
		t.Fatalf("snapshot shape wrong: %+v", body.Data)
	}
	if body.Data.Results[1].SkipReason == "" {
		t.Error("skip reason must be surfaced")
	}
	if got := body.Data.Results[1].Charges; len(got) != 1 || got[0].Label != "Fiber" || got[0].Total != 102 {
		t.Errorf("charges must be surfaced on the snapshot, got %+v", got)
	}
	if body.Data.Results[2].Error == "" {
		t.Error("task error must be surfaced")
	}
}

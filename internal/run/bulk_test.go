package run_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"consultation-triage/config"
	"consultation-triage/internal/run"
	"consultation-triage/pkg/browser"
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

// fakeSession satisfies browser.Session for pool tests; nothing in the pool
// itself touches the page.
type fakeSession struct {
	id     int
	closed bool
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error { return nil }
func (s *fakeSession) Locate(selector string) (browser.Element, error) {
	return nil, browser.ErrElementTimeout
}
func (s *fakeSession) LocateAll(selector string) ([]browser.Element, error) { return nil, nil }
func (s *fakeSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) (browser.Element, error) {
	return nil, browser.ErrElementTimeout
}
func (s *fakeSession) CurrentURL() string                         { return "" }
func (s *fakeSession) SaveDiagnostic(name string) (string, error) { return "", nil }
func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func identifiers(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("SO-%03d", i)
	}
	return ids
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("One Result Per Identifier In Chunk Order", func(t *testing.T) {
		var mu sync.Mutex
		sessions := 0
		factory := func(ctx context.Context) (browser.Session, error) {
			mu.Lock()
			defer mu.Unlock()
			sessions++
			return &fakeSession{id: sessions}, nil
		}
		check := func(ctx context.Context, s browser.Session, id string) (string, error) {
			return "eligible", nil
		}
		pool := run.NewBulkPool(config.BulkConfig{Workers: 3}, factory, check, nopLogger{})

		ids := identifiers(10)
		results := pool.Verify(ctx, ids)
		if len(results) != 10 {
			t.Fatalf("expected 10 results, got %d", len(results))
		}
		// ceil(10/3) = 4 per chunk: chunks of 4, 4, 2 → 3 sessions.
		if sessions != 3 {
			t.Errorf("expected one session per worker (3), got %d", sessions)
		}
		for i, res := range results {
			if res.Identifier != ids[i] {
				t.Fatalf("result %d out of order: got %s want %s", i, res.Identifier, ids[i])
			}
		}
	})

	t.Run("Check Errors Are Recorded Not Fatal", func(t *testing.T) {
		factory := func(ctx context.Context) (browser.Session, error) {
			return &fakeSession{}, nil
		}
		check := func(ctx context.Context, s browser.Session, id string) (string, error) {
			if id == "SO-001" {
				return "", errors.New("order not found")
			}
			return "eligible", nil
		}
		pool := run.NewBulkPool(config.BulkConfig{Workers: 2}, factory, check, nopLogger{})
		results := pool.Verify(ctx, identifiers(4))
		if got := run.Failed(results); got != 1 {
			t.Errorf("expected exactly one failed result, got %d", got)
		}
		for _, res := range results {
			if res.Identifier == "SO-001" && res.Err == nil {
				t.Error("failing identifier must carry its error")
			}
		}
	})

	t.Run("Factory Failure Fails Only That Chunk", func(t *testing.T) {
		var mu sync.Mutex
		calls := 0
		factory := func(ctx context.Context) (browser.Session, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if calls == 1 {
				return nil, errors.New("launch failed")
			}
			return &fakeSession{}, nil
		}
		check := func(ctx context.Context, s browser.Session, id string) (string, error) {
			return "eligible", nil
		}
		pool := run.NewBulkPool(config.BulkConfig{Workers: 2}, factory, check, nopLogger{})
		results := pool.Verify(ctx, identifiers(4))
		if len(results) != 4 {
			t.Fatalf("expected 4 results, got %d", len(results))
		}
		if got := run.Failed(results); got != 2 {
			t.Errorf("expected the failed worker's 2 identifiers to error, got %d", got)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		pool := run.NewBulkPool(config.BulkConfig{Workers: 4},
			func(ctx context.Context) (browser.Session, error) { return &fakeSession{}, nil },
			func(ctx context.Context, s browser.Session, id string) (string, error) { return "", nil },
			nopLogger{})
		if results := pool.Verify(ctx, nil); results != nil {
			t.Errorf("expected nil results for empty input, got %v", results)
		}
	})
}

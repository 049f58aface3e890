package browser

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Session so navigations respect a portal-wide rate
// limit. The portal returns 429s under bursty navigation; throttling here
// keeps every consumer honest without each one carrying a limiter.
type RateLimited struct {
	Session
	limiter *rate.Limiter
}

// NewRateLimited allows navsPerMin navigations per minute with a burst of 1.
func NewRateLimited(s Session, navsPerMin int) *RateLimited {
	return &RateLimited{
		Session: s,
		limiter: rate.NewLimiter(rate.Limit(float64(navsPerMin)/60.0), 1),
	}
}

func (r *RateLimited) Navigate(ctx context.Context, url string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.Session.Navigate(ctx, url)
}

// ExportState forwards to the wrapped driver when it supports state export.
func (r *RateLimited) ExportState() (string, error) {
	if e, ok := r.Session.(StateExporter); ok {
		return e.ExportState()
	}
	return "", errors.New("browser: driver does not export state")
}

// ImportState forwards to the wrapped driver when it supports state restore.
func (r *RateLimited) ImportState(raw string) error {
	if e, ok := r.Session.(StateExporter); ok {
		return e.ImportState(raw)
	}
	return errors.New("browser: driver does not restore state")
}

var (
	_ Session       = (*RateLimited)(nil)
	_ StateExporter = (*RateLimited)(nil)
)

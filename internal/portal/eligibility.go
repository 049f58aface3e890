package portal

import (
	"context"
	"fmt"
	"strings"

	"consultation-triage/config"
	"consultation-triage/pkg/browser"
	pkgLog "consultation-triage/pkg/log"
)

const (
	selOrderStatus  = "#OrderStatus"
	selOrderMissing = "div.error"
)

// SalesOrderEligibility returns the per-identifier check used by the bulk
// verification pool. Each invocation runs inside the calling worker's own
// session; the check navigates to the order view and reads its status.
func SalesOrderEligibility(cfg config.PortalConfig, l pkgLog.Logger) func(ctx context.Context, session browser.Session, identifier string) (string, error) {
	return func(ctx context.Context, session browser.Session, identifier string) (string, error) {
		orderURL := fmt.Sprintf("%s/salesorders/view.php?soid=%s", strings.TrimRight(cfg.BaseURL, "/"), identifier)
		if err := session.Navigate(ctx, orderURL); err != nil {
			return "", fmt.Errorf("open sales order %s: %w", identifier, err)
		}

		el, err := session.WaitFor(ctx, selOrderStatus, cfg.PageTimeout)
		if err != nil {
			if missing, merr := session.Locate(selOrderMissing); merr == nil && missing != nil {
				return "", fmt.Errorf("sales order %s not found", identifier)
			}
			return "", fmt.Errorf("read status of sales order %s: %w", identifier, err)
		}
		statusText, err := el.Text()
		if err != nil {
			return "", fmt.Errorf("read status of sales order %s: %w", identifier, err)
		}

		status := strings.ToLower(strings.TrimSpace(statusText))
		l.Debugf(ctx, "bulk: order %s status %q", identifier, status)
		switch status {
		case "complete", "completed", "provisioned":
			return "eligible (" + status + ")", nil
		default:
			return "not eligible (" + status + ")", nil
		}
	}
}

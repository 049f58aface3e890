package portal

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"consultation-triage/internal/model"
)

// OpenTask navigates to a task detail view and waits for the form.
func (r *implRepository) OpenTask(ctx context.Context, taskURL string) error {
	if err := r.session.Navigate(ctx, taskURL); err != nil {
		return err
	}
	_, err := r.session.WaitFor(ctx, selTaskNotes, r.cfg.PageTimeout)
	return err
}

// TaskNotes reads the raw Notes textarea of the currently open task.
func (r *implRepository) TaskNotes(ctx context.Context) (string, error) {
	el, err := r.session.WaitFor(ctx, selTaskNotes, r.cfg.PageTimeout)
	if err != nil {
		return "", err
	}
	val, err := el.Value()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(val), nil
}

// TaskID reads the hidden nTaskID input of the currently open task.
func (r *implRepository) TaskID(ctx context.Context) (string, error) {
	el, err := r.session.Locate(selTaskIDInput)
	if err != nil {
		return "", ErrTaskIDNotFound
	}
	val, err := el.Value()
	if err != nil || strings.TrimSpace(val) == "" {
		return "", ErrTaskIDNotFound
	}
	return strings.TrimSpace(val), nil
}

// CustomerInfo extracts customer name, CID and ticket number from the task
// detail view. The ticket number comes from the "Dispatch for Ticket N"
// header; a missing header means the task cannot be summarized.
func (r *implRepository) CustomerInfo(ctx context.Context) (model.CustomerInfo, error) {
	cidEl, err := r.session.Locate(selCustomerID)
	if err != nil {
		return model.CustomerInfo{}, fmt.Errorf("customer id: %w", err)
	}
	cid, err := cidEl.Text()
	if err != nil {
		return model.CustomerInfo{}, fmt.Errorf("customer id: %w", err)
	}

	nameEl, err := r.session.Locate(selCustomerName)
	if err != nil {
		return model.CustomerInfo{}, fmt.Errorf("customer name: %w", err)
	}
	name, err := nameEl.Text()
	if err != nil {
		return model.CustomerInfo{}, fmt.Errorf("customer name: %w", err)
	}

	cid = strings.TrimSpace(cid)
	info := model.CustomerInfo{
		CustomerName: strings.TrimSpace(name),
		CustomerID:   cid,
		CustomerURL:  fmt.Sprintf("%s/menu.php?coid=1&tabid=7&parentid=9&customerid=%s", strings.TrimRight(r.cfg.BaseURL, "/"), cid),
	}

	dispatchEl, err := r.session.WaitFor(ctx, selDispatchHeader, r.cfg.PageTimeout)
	if err != nil {
		return info, ErrTicketNotFound
	}
	dispatchText, err := dispatchEl.Text()
	if err != nil {
		return info, ErrTicketNotFound
	}
	fields := strings.Fields(strings.TrimSpace(dispatchText))
	if len(fields) == 0 {
		return info, ErrTicketNotFound
	}
	info.TicketNumber = fields[len(fields)-1]
	return info, nil
}

// ExpandTask clicks the fieldset legend when the task's display span is
// hidden or collapsed. Failure here is reported but callers treat it as
// non-fatal: the form may already be usable.
func (r *implRepository) ExpandTask(ctx context.Context, taskID string) error {
	span, err := r.session.Locate("#displaySpan" + taskID)
	if err != nil {
		return err
	}
	visible, err := span.IsVisible()
	if err != nil {
		return err
	}
	if visible {
		return nil
	}

	legend, err := span.Locate("xpath=ancestor::fieldset[1]/legend")
	if err != nil {
		return err
	}
	if err := legend.Click(); err != nil {
		return err
	}
	_, err = r.session.WaitFor(ctx, "#displaySpan"+taskID, r.cfg.PageTimeout)
	return err
}

// TaskNotesHistory returns the rendered notes-history HTML for idempotency
// comparison. An empty string (no history cell yet) is not an error.
func (r *implRepository) TaskNotesHistory(ctx context.Context) (string, error) {
	el, err := r.session.Locate(selNotesHistory)
	if err != nil {
		return "", nil
	}
	return el.InnerHTML()
}

// joinURL resolves href against base, passing absolute URLs through.
func joinURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

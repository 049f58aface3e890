package summary

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"consultation-triage/internal/classify"
	"consultation-triage/internal/model"
	"consultation-triage/internal/portal"
	pkgLog "consultation-triage/pkg/log"
)

// Builder assembles a dispatch summary from the work order linked to the
// currently open task.
type Builder struct {
	repo    portal.Repository
	charges *classify.ChargeDetector
	l       pkgLog.Logger
}

// BuildResult carries the structured summary, its canonical rendering, and
// any billable line items detected in the work-order notes.
type BuildResult struct {
	Summary model.DispatchSummary
	Text    string
	Charges []model.Charge
}

func NewBuilder(repo portal.Repository, charges *classify.ChargeDetector, l pkgLog.Logger) *Builder {
	return &Builder{repo: repo, charges: charges, l: l}
}

// Build resolves the task's customer and ticket context, selects the
// matching dispatch work order, and produces the summary. Every early
// return wraps ErrNoSummary: the caller skips the task and leaves it for
// manual handling.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	info, err := b.repo.CustomerInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSummary, err)
	}
	if info.TicketNumber == "" {
		return nil, fmt.Errorf("%w: %v", ErrNoSummary, portal.ErrTicketNotFound)
	}

	rows, err := b.repo.WorkOrderRows(ctx, info.CustomerURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSummary, err)
	}
	row, ok := selectDispatchRow(rows, info.TicketNumber)
	if !ok {
		b.l.Warnf(ctx, "no dispatch work order matched ticket %s", info.TicketNumber)
		return nil, fmt.Errorf("%w: %v", ErrNoSummary, portal.ErrWorkOrderUnresolved)
	}

	wo, err := b.repo.WorkOrder(ctx, row.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSummary, err)
	}
	wo.Number = row.Number
	if !wo.Completed() {
		b.l.Warnf(ctx, "work order %d is still %q, skipping", wo.Number, wo.Status)
		return nil, fmt.Errorf("%w: %v", ErrNoSummary, portal.ErrWorkOrderNotComplete)
	}

	combined := wo.Notes.Combined()
	workDone := strings.TrimSpace(wo.Notes.AdditionalNotes)
	if workDone == "" {
		workDone = combined
	}

	s := model.DispatchSummary{
		CustomerName:     info.CustomerName,
		CustomerID:       info.CustomerID,
		WONumber:         wo.Number,
		WOURL:            wo.URL,
		ArrivalDisplay:   displayTime(wo.ArrivalDate, wo.ArrivalTime),
		DepartureDisplay: displayTime(wo.DepartureDate, wo.DepartureTime),
		TotalDisplay:     totalHours(wo.ArrivalDate, wo.ArrivalTime, wo.DepartureDate, wo.DepartureTime),
		WorkDone:         workDone,
		Equipment:        splitEquipment(wo.Notes.EquipmentInstalled),
		ResponsibleParty: responsibleParty(combined),
	}

	return &BuildResult{
		Summary: s,
		Text:    Render(s),
		Charges: b.charges.Detect(combined),
	}, nil
}

// selectDispatchRow keeps rows whose description references the ticket and
// returns the one with the highest work-order number. Numeric ID, not date,
// breaks ties: the portal assigns numbers monotonically.
func selectDispatchRow(rows []model.WorkOrderRow, ticket string) (model.WorkOrderRow, bool) {
	re := regexp.MustCompile(`(?i)ticket\s*#?\s*` + regexp.QuoteMeta(ticket))
	best := model.WorkOrderRow{Number: -1}
	for _, row := range rows {
		if re.MatchString(row.Description) && row.Number > best.Number {
			best = row
		}
	}
	return best, best.Number >= 0
}

// splitEquipment turns the EquipmentInstalled textarea into one entry per
// non-blank line.
func splitEquipment(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package portal

import (
	"context"
	"strings"
	"time"

	"consultation-triage/internal/model"
	"consultation-triage/pkg/browser"
)

// DueConsultationTasks opens the task feed and keeps consultation rows whose
// due date is on or before today. Rows with an unparseable due date are
// skipped and logged, not treated as run errors.
func (r *implRepository) DueConsultationTasks(ctx context.Context) ([]model.Task, error) {
	if err := r.session.Navigate(ctx, r.cfg.TaskFeedURL); err != nil {
		return nil, err
	}
	if _, err := r.session.WaitFor(ctx, selTaskRows, r.cfg.PageTimeout); err != nil {
		return nil, err
	}

	rows, err := r.session.LocateAll(selTaskRows)
	if err != nil {
		return nil, err
	}

	today := r.now().Format("2006-01-02")
	var due []model.Task
	for _, row := range rows {
		task, ok := r.parseTaskRow(row)
		if !ok || !strings.Contains(strings.ToLower(task.Description), "consultation") {
			continue
		}
		if _, err := time.Parse("2006-01-02", task.DueDate); err != nil {
			r.l.Warnf(ctx, "could not parse due date %q for %q, skipping row", task.DueDate, task.Description)
			continue
		}
		if task.DueDate > today {
			continue
		}
		due = append(due, task)
	}

	r.l.Infof(ctx, "found %d due consultation tasks", len(due))
	return due, nil
}

// parseTaskRow pulls url, description, due date, assignee and company from
// one feed row. Short rows (headers, separators) report ok=false.
func (r *implRepository) parseTaskRow(row browser.Element) (model.Task, bool) {
	cells, err := row.LocateAll("td")
	if err != nil || len(cells) < 6 {
		return model.Task{}, false
	}

	anchor, err := cells[0].Locate("a")
	if err != nil {
		return model.Task{}, false
	}
	href, err := anchor.Attribute("href")
	if err != nil || href == "" {
		return model.Task{}, false
	}

	desc, _ := cells[1].Text()
	due := ""
	if nobr, nerr := cells[3].Locate("nobr"); nerr == nil {
		due, _ = nobr.Text()
	}
	assigned, _ := cells[4].Text()
	company, _ := cells[5].Text()

	return model.Task{
		URL:         joinURL(r.cfg.BaseURL, href),
		Description: strings.TrimSpace(desc),
		DueDate:     strings.TrimSpace(due),
		AssignedTo:  strings.TrimSpace(assigned),
		Company:     strings.TrimSpace(company),
	}, true
}

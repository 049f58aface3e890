package portal

import (
	"context"
	"strconv"
	"strings"

	"consultation-triage/internal/model"
)

// WorkOrderRows navigates to a customer page and lists the work-order table.
// Header rows and rows without a numeric work-order number are skipped.
func (r *implRepository) WorkOrderRows(ctx context.Context, customerURL string) ([]model.WorkOrderRow, error) {
	if err := r.session.Navigate(ctx, customerURL); err != nil {
		return nil, err
	}
	if _, err := r.session.WaitFor(ctx, selWorkOrderRows, r.cfg.PageTimeout); err != nil {
		return nil, err
	}

	rows, err := r.session.LocateAll(selWorkOrderRows)
	if err != nil {
		return nil, err
	}

	var out []model.WorkOrderRow
	for _, row := range rows {
		cells, err := row.LocateAll("td")
		if err != nil || len(cells) < 5 {
			continue
		}
		first, _ := cells[0].Text()
		first = strings.TrimSpace(first)
		number, err := strconv.Atoi(first)
		if err != nil {
			continue // header or separator row
		}

		desc, _ := cells[1].Text()
		href := ""
		if anchor, aerr := cells[4].Locate("a"); aerr == nil {
			href, _ = anchor.Attribute("href")
		}

		out = append(out, model.WorkOrderRow{
			Number:      number,
			Description: strings.TrimSpace(desc),
			URL:         joinURL(r.cfg.BaseURL, href),
		})
	}
	return out, nil
}

// WorkOrder opens a work order and reads status, arrival/departure fields and
// the four note textareas. Results are cached by URL for the run, so a work
// order shared by several tasks is fetched once.
func (r *implRepository) WorkOrder(ctx context.Context, woURL string) (model.WorkOrder, error) {
	if wo, ok := r.woCache.Get(woURL); ok {
		return wo, nil
	}

	if err := r.session.Navigate(ctx, woURL); err != nil {
		return model.WorkOrder{}, err
	}
	if _, err := r.session.WaitFor(ctx, selWOAdditionalNote, r.cfg.PageTimeout); err != nil {
		return model.WorkOrder{}, err
	}

	wo := model.WorkOrder{URL: woURL}
	if el, err := r.session.Locate(selWOStatus); err == nil {
		status, _ := el.Text()
		wo.Status = strings.TrimSpace(status)
	}

	wo.ArrivalDate = r.inputValue(selWOArrivalDate)
	wo.ArrivalTime = r.inputValue(selWOArrivalTime)
	wo.DepartureDate = r.inputValue(selWODepartureDate)
	wo.DepartureTime = r.inputValue(selWODepartureTime)

	wo.Notes = model.WorkOrderNotes{
		EquipmentInstalled:  r.inputValue("#EquipmentInstalled"),
		AdditionalMaterials: r.inputValue("#AdditionalMaterials"),
		TestsPerformed:      r.inputValue("#TestsPerformed"),
		AdditionalNotes:     r.inputValue(selWOAdditionalNote),
	}

	r.woCache.Add(woURL, wo)
	return wo, nil
}

// inputValue reads and trims a form field, returning "" when absent. Missing
// note fields are normal on older work orders.
func (r *implRepository) inputValue(selector string) string {
	el, err := r.session.Locate(selector)
	if err != nil {
		return ""
	}
	val, err := el.Value()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(val)
}

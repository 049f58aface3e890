package model

import "strings"

// WorkOrderRow is one row of a customer's work-order table.
type WorkOrderRow struct {
	Number      int
	Description string
	URL         string
}

// WorkOrderNotes holds the four note textareas of a work order.
type WorkOrderNotes struct {
	EquipmentInstalled  string
	AdditionalMaterials string
	TestsPerformed      string
	AdditionalNotes     string
}

// Combined renders the populated note fields as one labelled block, in the
// fixed field order the portal shows them.
func (n WorkOrderNotes) Combined() string {
	var b strings.Builder
	for _, f := range []struct{ label, text string }{
		{"Equipment Installed", n.EquipmentInstalled},
		{"Additional Materials", n.AdditionalMaterials},
		{"Tests Performed", n.TestsPerformed},
		{"Additional Notes", n.AdditionalNotes},
	} {
		if f.text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.label + ": " + f.text)
	}
	return strings.TrimSpace(b.String())
}

// WorkOrder is the dispatch record read from the portal.
type WorkOrder struct {
	Number        int
	URL           string
	Status        string
	ArrivalDate   string // YYYY-MM-DD
	ArrivalTime   string // H:MM or HH:MM
	DepartureDate string
	DepartureTime string
	Notes         WorkOrderNotes
}

// Completed reports whether the work order status normalizes to a completed
// state. Both portal spellings are accepted.
func (w WorkOrder) Completed() bool {
	s := strings.ToLower(strings.TrimSpace(w.Status))
	return s == "complete" || s == "completed"
}

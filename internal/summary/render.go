package summary

import (
	"fmt"
	"strings"

	"consultation-triage/internal/model"
)

// Render produces the canonical summary text block. The section order and
// label text are load-bearing: the block is parsed back by the idempotency
// guard and read by billing downstream, so neither may change.
func Render(s model.DispatchSummary) string {
	lines := []string{
		"CUSTOMER: " + s.CustomerName,
		"CID: " + s.CustomerID,
		fmt.Sprintf("WORK ORDER NUMBER: %d", s.WONumber),
		"WORK ORDER LINK: " + s.WOURL,
		"",
		"Arrival Time: " + s.ArrivalDisplay,
		"Departure Time: " + s.DepartureDisplay,
		"",
		"Total time of DP: " + s.TotalDisplay,
		"",
		"WORK DONE (DISPATCH NOTES):",
		s.WorkDone,
		"",
		"EQUIPMENT USED:",
	}
	lines = append(lines, s.Equipment...)
	lines = append(lines, "", "RESPONSIBLE PARTY: "+s.ResponsibleParty)
	return strings.Join(lines, "\n")
}

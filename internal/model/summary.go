package model

// DispatchSummary is the structured artifact assembled from a completed
// work order. Its rendered text block is the unit written to the ticket's
// notes and compared for idempotency.
type DispatchSummary struct {
	CustomerName     string
	CustomerID       string
	WONumber         int
	WOURL            string
	ArrivalDisplay   string // time of day, or "not given"
	DepartureDisplay string
	TotalDisplay     string // quarter-hour hours with two decimals, minimum "1.00"
	WorkDone         string
	Equipment        []string
	ResponsibleParty string
}

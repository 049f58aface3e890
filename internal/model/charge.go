package model

// Charge is a billable line item detected in work-order notes.
type Charge struct {
	Label          string
	UnitPrice      float64
	Quantity       float64
	Total          float64
	MatchedKeyword string
}

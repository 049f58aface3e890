package classify

// Category is the billing category assigned to a job type.
type Category int

const (
	CategoryFree Category = iota
	CategoryBillable
	CategoryUnknown
)

func (c Category) String() string {
	switch c {
	case CategoryFree:
		return "Free"
	case CategoryBillable:
		return "Billable"
	default:
		return "Unknown"
	}
}

// JobTypeResult is the classifier's verdict for one raw note string. The
// matched keyword and score are carried for observability and tests.
type JobTypeResult struct {
	RawText        string
	NormalizedText string
	Category       Category
	MatchedKeyword string
	Score          int
}

package model

// Task is one row from the due-task feed. It is a read-only view fetched
// once per run.
type Task struct {
	ID          string // Hidden nTaskID value, resolved after opening the task
	Description string
	URL         string
	Company     string
	AssignedTo  string
	DueDate     string // YYYY-MM-DD as rendered by the feed
}

// CustomerInfo is the customer and ticket context resolved from a task
// detail view.
type CustomerInfo struct {
	CustomerName string
	CustomerID   string
	TicketNumber string
	CustomerURL  string
}

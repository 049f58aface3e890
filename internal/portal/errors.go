package portal

import "errors"

// Domain-specific errors for the portal package.
var (
	ErrTicketNotFound       = errors.New("ticket number not found on task")
	ErrTaskIDNotFound       = errors.New("task id not found on page")
	ErrWorkOrderUnresolved  = errors.New("no dispatch work order matched the ticket")
	ErrWorkOrderNotComplete = errors.New("work order is not in a completed status")
)

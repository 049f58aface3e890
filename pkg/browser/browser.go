// Package browser defines the session capability the triage engine consumes.
// Concrete drivers (a real browser-automation library, or test fakes) live
// behind these interfaces; the core never touches a driver directly.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrElementTimeout reports that a required element did not appear within
// its deadline. Callers treat it as recoverable and local to the current task.
var ErrElementTimeout = errors.New("element wait timed out")

// Element is a handle to a located DOM element.
type Element interface {
	// Text returns the rendered text content.
	Text() (string, error)
	// Value returns the current value of an input or textarea.
	Value() (string, error)
	// InnerHTML returns the element's inner HTML.
	InnerHTML() (string, error)
	// Attribute returns the named attribute, or "" when absent.
	Attribute(name string) (string, error)

	Click() error
	Fill(text string) error
	Clear() error
	IsChecked() (bool, error)
	IsVisible() (bool, error)

	// Locate scopes a selector to this element's subtree.
	Locate(selector string) (Element, error)
	// LocateAll returns every descendant matching selector.
	LocateAll(selector string) ([]Element, error)
}

// Session is an authenticated browser session positioned on the portal.
type Session interface {
	// Navigate loads the given URL. Implementations fall back to a laxer
	// "page loaded" condition when the strict one times out.
	Navigate(ctx context.Context, url string) error

	// Locate returns the first element matching selector without waiting.
	Locate(selector string) (Element, error)

	// LocateAll returns every element matching selector.
	LocateAll(selector string) ([]Element, error)

	// WaitFor suspends until an element matching selector is present, or
	// returns ErrElementTimeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error)

	// CurrentURL returns the URL of the page the session is on.
	CurrentURL() string

	// SaveDiagnostic captures a screenshot or HTML dump under the given
	// name and returns the artifact path.
	SaveDiagnostic(name string) (string, error)

	Close() error
}

// StateExporter is implemented by drivers that can snapshot and restore
// their cookie state. Drivers that cannot simply re-authenticate each run.
type StateExporter interface {
	ExportState() (string, error)
	ImportState(raw string) error
}

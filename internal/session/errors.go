package session

import "errors"

// Domain-specific errors for the session package.
var (
	ErrSetupFailed        = errors.New("session bootstrap failed")
	ErrMissingCredentials = errors.New("portal credentials not configured")
)

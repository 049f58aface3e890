package finalize

import "errors"

// ErrWriteFailed reports that every attempt of a completion write failed.
var ErrWriteFailed = errors.New("completion write failed after retries")

package lifecycle

import "errors"

var (
	// ErrStoreUnavailable aborts a whole pass; the next scheduled run retries.
	ErrStoreUnavailable = errors.New("metadata store unavailable")
	// ErrResourceBusy marks a candidate whose blob could not be removed this pass.
	ErrResourceBusy = errors.New("resource busy")

	// ErrAlreadyRunning is returned by Start on a scheduler that is running.
	ErrAlreadyRunning = errors.New("scheduler already running")
	// ErrInvalidInterval is returned by Start when the interval is not positive.
	ErrInvalidInterval = errors.New("scheduler interval must be positive")
	// ErrJobPanicked wraps a panic recovered from a scheduled pass.
	ErrJobPanicked = errors.New("sweep job panicked")
)

package domain

import "errors"

// Error kinds surfaced by the roster and time-off services. Use errors.Is;
// wrapped errors carry the underlying cause.
var (
	// ErrFetchFailed means a reload failed; the in-memory cache was left at
	// its previous contents.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrWriteFailed means an insert/update/delete did not take effect.
	ErrWriteFailed = errors.New("write failed")

	// ErrValidation means a precondition on the write was violated and
	// nothing was written.
	ErrValidation = errors.New("validation failed")

	// ErrPartialCompletion means a composite operation completed some but not
	// all of its steps. Completed steps are not rolled back; callers should
	// re-fetch and inspect actual state rather than retry blindly.
	ErrPartialCompletion = errors.New("operation partially completed")
)

package upstream

import "errors"

// Sentinel errors shared by all platform clients.
var (
	// ErrUserNotFound means the platform answered properly and reported
	// that the handle does not exist. Not retryable.
	ErrUserNotFound = errors.New("user not found on upstream platform")

	// ErrUnavailable means the platform was blocked, timed out or returned
	// something that is not well-formed data (e.g. an HTML block page).
	// Safe to retry later; cached data must not be invalidated.
	ErrUnavailable = errors.New("upstream unavailable")
)

// ErrorKind buckets an upstream error for metrics labels.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "not_found"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}

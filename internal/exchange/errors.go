package exchange

import "errors"

// Stable, machine-checkable error kinds. Callers match them with errors.Is;
// none of them are fatal to the process.
var (
	// ErrInvalidWord rejects text that is not a single token. Raised before
	// any persistence attempt.
	ErrInvalidWord = errors.New("word must be a single token (letters, hyphen, apostrophe)")

	// ErrDailyLimitExceeded means a word already exists for this pair today.
	// Not retryable; the correct action is to wait until tomorrow.
	ErrDailyLimitExceeded = errors.New("a word was already sent to this connection today")

	// ErrPermissionDenied covers deletion by a non-sender and sends outside
	// an established connection.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrStorageUnavailable wraps transient persistence failures; the
	// operation may be retried.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

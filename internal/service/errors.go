package service

import "errors"

// The error taxonomy callers branch on. Handlers map these to HTTP statuses;
// anything else is a storage/infrastructure failure and reads as retryable.
var (
	// ErrInvalidInput rejects malformed requests before any storage access.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound covers unknown ids and quizzes owned by another user; the
	// two are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted rejects writes against a finalized quiz, distinct
	// from validation errors so clients can re-fetch the summary instead of
	// retrying.
	ErrAlreadyCompleted = errors.New("quiz already completed")

	// ErrNoContent signals an empty letter catalog, a configuration error.
	ErrNoContent = errors.New("no content available")
)

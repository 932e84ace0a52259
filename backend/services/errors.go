package services

import "errors"

var (
	// ErrNotFound covers habits and completions that are absent or not
	// owned by the requesting user; the two cases are indistinguishable
	// to the caller on purpose.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCompletion is returned when a completion already exists
	// for the (habit, date) pair.
	ErrDuplicateCompletion = errors.New("habit already completed for this date")

	// ErrInvalidDate is returned for future dates and for dates earlier
	// than the habit's last completion. The streak counter only rolls
	// forward, so there is no backfill path.
	ErrInvalidDate = errors.New("invalid completion date")

	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
)

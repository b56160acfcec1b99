package scan

import "errors"

var (
	// ErrEmptyMessage is returned when the message is empty after trimming.
	// No request is sent.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy is returned when a submission is already in flight.
	// The call is dropped; callers may treat it as a no-op.
	ErrBusy = errors.New("a scan is already in progress")
)

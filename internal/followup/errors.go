package followup

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAwaiting is returned when answers or a refinement are requested
	// while no follow-up questions are open.
	ErrNotAwaiting = errors.New("no follow-up questions are awaiting answers")

	// ErrUnknownQuestion is returned when an answer names a question that
	// the current result did not ask.
	ErrUnknownQuestion = errors.New("unknown follow-up question")
)

// RefinementError reports a failed follow-up resubmission.
// The dialog has returned to AwaitingAnswers with the answers kept.
type RefinementError struct {
	Err error
}

// Error implements the error interface.
func (e *RefinementError) Error() string {
	return fmt.Sprintf("refinement failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RefinementError) Unwrap() error {
	return e.Err
}

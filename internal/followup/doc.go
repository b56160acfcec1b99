// Package followup implements the disambiguation dialog that refines an
// uncertain result.
//
// The dialog is an explicit state machine. Transition is a pure function
// from (State, Event) to the next State plus a list of Effects for the
// presentation layer to carry out. Controller wraps it, holds the current
// state and performs the one effect with I/O, SubmitRefinement, by calling
// a Submitter serially.
//
//	Hidden ──ReportShown(uncertain, questions)──▶ AwaitingAnswers
//	AwaitingAnswers ──RefineRequested──▶ Submitting
//	Submitting ──RefineSucceeded──▶ Resolved, or AwaitingAnswers when the
//	                                 new result is uncertain again
//	Submitting ──RefineFailed──▶ AwaitingAnswers (answers kept)
//
// Events that do not apply to the current state are ignored: the state is
// returned unchanged with no effects.
package followup

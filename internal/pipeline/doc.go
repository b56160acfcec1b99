// Package pipeline runs messages through the check steps of the CLI.
//
// Each message becomes a Job that passes through the steps of a Pipeline:
// the scan, the optional follow-up refinement, and the report output.
// A Batch feeds a list of messages through a pipeline one after another.
// Messages are processed sequentially because a session allows only one
// request in flight; the order of the results matches the input.
package pipeline

// Package scan coordinates a single classification request.
//
// A Coordinator allows at most one submission in flight. Each accepted
// submission runs the classifier call and the progress animation together
// and waits for both before returning, so callers never see a result while
// the progress log is still playing. A submission made while another is in
// flight is dropped with ErrBusy, never queued.
package scan

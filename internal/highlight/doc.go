// Package highlight annotates a message with the terms the classifier flagged.
//
// Annotate performs a single left-to-right pass over the raw message and
// produces an ordered list of segments, each either plain text or a flagged
// term. Rendering (HTML, terminal) escapes every segment independently.
//
// Design decision: We segment the raw text instead of running one
// replace pass per term over already-escaped markup. Sequential replacement
// re-matches inside spans inserted by an earlier term (e.g. "win" inside a
// wrapped "WINNER") and inside escape entities (e.g. "amp" inside "&amp;").
// A single pass cannot revisit output, so neither can happen.
//
// Overlap policy: at each position the longest matching term wins, and the
// scan resumes after it. Overlapping matches are never nested; a term that
// starts inside an earlier match is not highlighted.
package highlight

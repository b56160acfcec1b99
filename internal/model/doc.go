// Package model defines the data structures shared across scamscan.
//
// This package contains the following main types:
//   - ScanRequest: The payload sent to the classification endpoint
//   - ScanResult: The classifier's assessment of a single message
//   - Highlight: A flagged term with its impact score and justification
//   - FollowupQuestion / Answer: The disambiguation dialog vocabulary
//   - Verdict: The derived Safe / Threat / Uncertain bucket
//
// Design decision: Classify lives next to the data it interprets so that
// every presentation surface (terminal report, Markdown, HTML, TUI) derives
// colors, labels and counters from one rule instead of re-implementing it.
//
// The models are serializable to JSON using the classifier's snake_case
// wire names.
package model

package scan

import (
	"time"

	"github.com/nao1215/scamscan/internal/highlight"
	"github.com/nao1215/scamscan/internal/model"
)

// Report is a fully formed classification outcome, ready for presentation.
// It is never modified after creation; a refinement produces a new Report.
type Report struct {
	// Result is the classifier payload.
	Result model.ScanResult

	// Verdict is Classify(Result), computed once so every surface agrees.
	Verdict model.Verdict

	// Preview is the submitted message annotated with the flagged terms.
	Preview highlight.Annotation

	// Message is the trimmed text that was submitted.
	Message string

	// Refined is true when the result came from a follow-up resubmission.
	Refined bool

	// CompletedAt is when both the request and the progress log finished.
	CompletedAt time.Time

	// Elapsed is the wall time of the submission.
	Elapsed time.Duration
}

// NewReport builds a Report for message from result.
// The result is copied so the report owns its data.
func NewReport(message string, result model.ScanResult, refined bool, completedAt time.Time) *Report {
	r := result.Clone()
	return &Report{
		Result:      r,
		Verdict:     model.Classify(r),
		Preview:     highlight.Annotate(message, r.Highlights),
		Message:     message,
		Refined:     refined,
		CompletedAt: completedAt,
	}
}

// StatusLine returns the outcome line shown after the progress log.
func (r *Report) StatusLine() string {
	return model.StatusLine(r.Result)
}

// Severity returns the severity band of the probability.
func (r *Report) Severity() string {
	return model.SeverityBand(r.Result.Probability)
}

// NeedsFollowup reports whether the report should open the follow-up dialog.
func (r *Report) NeedsFollowup() bool {
	return r.Verdict == model.VerdictUncertain && r.Result.HasFollowup()
}

// Terms returns the flagged terms as shown in the preview: deduplicated and
// longest first.
func (r *Report) Terms() []model.Highlight {
	return highlight.Terms(r.Result.Highlights)
}

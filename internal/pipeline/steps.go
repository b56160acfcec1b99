package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/report"
	"github.com/nao1215/scamscan/internal/session"
)

// Step names.
const (
	StepScan     = "scan"
	StepFollowup = "followup"
	StepReport   = "report"
)

// ScanStep classifies the job's message through the session.
type ScanStep struct {
	session *session.Session
	sink    func(string)
}

// NewScanStep creates a scan step. Progress lines go to sink, which may be
// nil.
func NewScanStep(sess *session.Session, sink func(string)) *ScanStep {
	return &ScanStep{session: sess, sink: sink}
}

// Name returns the step name.
func (s *ScanStep) Name() string {
	return StepScan
}

// Do executes the scan step.
func (s *ScanStep) Do(ctx context.Context, job *Job) error {
	r, err := s.session.Scan(ctx, job.Message, s.sink)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	job.Report = r
	return nil
}

// Asker asks the user a follow-up question. ok is false when the question
// was skipped.
type Asker interface {
	Ask(ctx context.Context, q model.FollowupQuestion) (answer model.Answer, ok bool, err error)
}

// AskerFunc adapts a function to Asker.
type AskerFunc func(ctx context.Context, q model.FollowupQuestion) (model.Answer, bool, error)

// Ask calls f.
func (f AskerFunc) Ask(ctx context.Context, q model.FollowupQuestion) (model.Answer, bool, error) {
	return f(ctx, q)
}

// FollowupStep answers the follow-up questions of an uncertain report and
// refines it.
//
// Preset answers apply to the questions they name in the first round only.
// With an Asker, every question without a preset answer is asked, and a
// refined result that is still uncertain starts another round in which the
// Asker answers every question. Without an Asker there is a single round.
// When no question gets an answer, the report is left as is.
type FollowupStep struct {
	session *session.Session
	answers map[string]model.Answer
	asker   Asker
	sink    func(string)
	logger  *slog.Logger
}

// FollowupStepOption configures a FollowupStep.
type FollowupStepOption func(*FollowupStep)

// WithAnswers sets the preset answers, keyed by question ID.
func WithAnswers(answers map[string]model.Answer) FollowupStepOption {
	return func(s *FollowupStep) {
		s.answers = maps.Clone(answers)
	}
}

// WithAsker sets the interactive asker.
func WithAsker(asker Asker) FollowupStepOption {
	return func(s *FollowupStep) {
		s.asker = asker
	}
}

// WithFollowupSink sets the progress sink of refinements.
func WithFollowupSink(sink func(string)) FollowupStepOption {
	return func(s *FollowupStep) {
		s.sink = sink
	}
}

// WithFollowupLogger sets a custom logger for the follow-up step.
func WithFollowupLogger(logger *slog.Logger) FollowupStepOption {
	return func(s *FollowupStep) {
		s.logger = logger
	}
}

// NewFollowupStep creates a follow-up step.
func NewFollowupStep(sess *session.Session, opts ...FollowupStepOption) *FollowupStep {
	s := &FollowupStep{session: sess}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Name returns the step name.
func (s *FollowupStep) Name() string {
	return StepFollowup
}

// Do executes the follow-up step.
func (s *FollowupStep) Do(ctx context.Context, job *Job) error {
	for round := 1; job.Report != nil && job.Report.NeedsFollowup(); round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var presets map[string]model.Answer
		if round == 1 {
			presets = s.answers
		}
		answered, err := s.answer(ctx, job, presets)
		if err != nil {
			return err
		}
		if answered == 0 {
			s.logger.Debug("no follow-up answers, keeping the report", "index", job.Index)
			return nil
		}

		s.logger.Info("refining", "index", job.Index, "round", round, "answers", answered)
		r, err := s.session.Refine(ctx, s.sink)
		if err != nil {
			return err
		}
		job.Report = r
		job.Refined = true

		if s.asker == nil {
			return nil
		}
	}
	return nil
}

// answer selects the answers of the open questions from presets, then the
// asker, and returns how many were given.
func (s *FollowupStep) answer(ctx context.Context, job *Job, presets map[string]model.Answer) (int, error) {
	answered := 0
	for _, q := range job.Report.Result.FollowupQuestions {
		a, ok := presets[q.ID]
		if !ok && s.asker != nil {
			var err error
			a, ok, err = s.asker.Ask(ctx, q)
			if err != nil {
				return 0, fmt.Errorf("failed to read answer for %s: %w", q.ID, err)
			}
		}
		if !ok {
			continue
		}
		if err := s.session.SelectAnswer(q.ID, a); err != nil {
			return 0, err
		}
		answered++
	}
	return answered, nil
}

// ReportStep writes the job's report.
type ReportStep struct {
	writer report.Writer
}

// NewReportStep creates a report step writing through w.
func NewReportStep(w report.Writer) *ReportStep {
	return &ReportStep{writer: w}
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return StepReport
}

// Do executes the report step. A job without a report writes nothing.
func (s *ReportStep) Do(_ context.Context, job *Job) error {
	if job.Report == nil {
		return nil
	}
	if _, err := s.writer.Write(job.Report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ErrNoWriter is returned by DefaultPipeline without a report writer.
var ErrNoWriter = errors.New("pipeline needs a report writer")

// DefaultPipeline builds the check pipeline: scan, follow-up, report.
// The follow-up step is only added when there are preset answers or an
// asker.
func DefaultPipeline(sess *session.Session, w report.Writer, sink func(string), pipelineOpts []Option, followupOpts ...FollowupStepOption) (*Pipeline, error) {
	if w == nil {
		return nil, ErrNoWriter
	}

	p := New(pipelineOpts...)
	p.AddStep(NewScanStep(sess, sink))

	fs := NewFollowupStep(sess, append([]FollowupStepOption{
		WithFollowupSink(sink),
		WithFollowupLogger(p.logger),
	}, followupOpts...)...)
	if len(fs.answers) > 0 || fs.asker != nil {
		p.AddStep(fs)
	}

	p.AddStep(NewReportStep(w))
	return p, nil
}

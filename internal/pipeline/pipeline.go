package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/scamscan/internal/log"
	"github.com/nao1215/scamscan/internal/scan"
)

// Job is one message travelling through a pipeline.
type Job struct {
	// Index is the position of the message in its batch.
	Index int

	// Message is the text to check.
	Message string

	// Report is the latest report, nil until the scan succeeded.
	Report *scan.Report

	// Refined is set once a follow-up refinement replaced the report.
	Refined bool

	// Err is the last step error, if any.
	Err error

	// Steps lists the steps that completed.
	Steps []string
}

// Failed reports whether the job has no report to show.
func (j *Job) Failed() bool {
	return j.Report == nil
}

// Step is one stage of a pipeline.
type Step interface {
	// Do executes the step. Steps with nothing to do return nil.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes its steps in order.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps running later steps after one failed, so a
	// failed refinement still prints the first report.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The error is recorded in the job.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps on job. Cancellation is checked before each step.
//
// It returns the first error unless the pipeline continues on error, in
// which case the last error is only recorded in job.Err.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
			job.Err = err
			return err
		}

		p.logger.Debug("executing step", append(log.MessageAttrs(job.Message), "step", step.Name())...)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "index", job.Index, "error", err)
			job.Err = err
			if !p.continueOnError {
				return err
			}
			continue
		}

		job.Steps = append(job.Steps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

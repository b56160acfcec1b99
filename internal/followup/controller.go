package followup

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/scan"
)

// Submitter resubmits a message. *scan.Coordinator implements it.
type Submitter interface {
	Submit(ctx context.Context, message string, extra scan.Extra, sink func(string)) (*scan.Report, error)
}

// Controller holds the dialog state and drives Transition.
// It is safe for concurrent use; refinements run one at a time.
type Controller struct {
	submitter Submitter
	logger    *slog.Logger
	onEffect  func(Effect)

	mu    sync.Mutex
	state State
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithEffectHandler registers fn to receive every effect, in order.
// fn is called without the controller lock held.
func WithEffectHandler(fn func(Effect)) ControllerOption {
	return func(c *Controller) {
		c.onEffect = fn
	}
}

// NewController creates a Controller in the Hidden state.
func NewController(submitter Submitter, opts ...ControllerOption) *Controller {
	c := &Controller{
		submitter: submitter,
		state:     Hidden{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies ev and returns the resulting effects.
func (c *Controller) Dispatch(ev Event) []Effect {
	c.mu.Lock()
	next, effects := Transition(c.state, ev)
	c.state = next
	c.mu.Unlock()

	c.emit(effects)
	return effects
}

// Show feeds a newly displayed report to the dialog.
func (c *Controller) Show(r *scan.Report) []Effect {
	return c.Dispatch(ReportShown{Report: r})
}

// SelectAnswer records an answer to an open question.
func (c *Controller) SelectAnswer(questionID string, answer model.Answer) error {
	if err := c.checkQuestion(questionID); err != nil {
		return err
	}
	c.Dispatch(AnswerSelected{QuestionID: questionID, Answer: answer})
	return nil
}

// ClearAnswer removes the answer to an open question.
func (c *Controller) ClearAnswer(questionID string) error {
	if err := c.checkQuestion(questionID); err != nil {
		return err
	}
	c.Dispatch(AnswerCleared{QuestionID: questionID})
	return nil
}

// checkQuestion reports why questionID cannot be answered, if it cannot.
func (c *Controller) checkQuestion(questionID string) error {
	st, ok := c.State().(AwaitingAnswers)
	if !ok {
		return ErrNotAwaiting
	}
	if !asked(st.Questions, questionID) {
		return ErrUnknownQuestion
	}
	return nil
}

// Refine resubmits the message with the selected answers and returns the
// refined report. On failure the dialog returns to AwaitingAnswers with the
// answers kept and a *RefinementError is returned. It returns ErrNotAwaiting
// when no questions are open, including while another refinement runs.
func (c *Controller) Refine(ctx context.Context, sink func(string)) (*scan.Report, error) {
	c.mu.Lock()
	next, effects := Transition(c.state, RefineRequested{})
	var req *SubmitRefinement
	for _, e := range effects {
		if sr, ok := e.(SubmitRefinement); ok {
			req = &sr
		}
	}
	if req == nil {
		c.mu.Unlock()
		return nil, ErrNotAwaiting
	}
	c.state = next
	c.mu.Unlock()
	c.emit(effects)

	c.logger.Debug("submitting refinement", "answers", len(req.Answers))

	report, err := c.submitter.Submit(ctx, req.Message, scan.Extra{
		FollowupAnswers:   req.Answers,
		FollowupSubmitted: true,
	}, sink)
	if err == nil && report == nil {
		err = errors.New("refinement returned no report")
	}
	if err != nil {
		c.logger.Warn("refinement failed", "error", err)
		c.Dispatch(RefineFailed{Err: err})
		return nil, &RefinementError{Err: err}
	}

	c.Dispatch(RefineSucceeded{Report: report})
	return report, nil
}

// emit passes effects to the registered handler.
func (c *Controller) emit(effects []Effect) {
	if c.onEffect == nil {
		return
	}
	for _, e := range effects {
		c.onEffect(e)
	}
}

package scan

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nao1215/scamscan/internal/log"
	"github.com/nao1215/scamscan/internal/model"
	"golang.org/x/sync/errgroup"
)

// Analyzer classifies a message. *classifier.Client implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error)
}

// Animator plays the cosmetic progress log. *progress.Animator implements it.
type Animator interface {
	Play(ctx context.Context, sink func(string)) int
}

// Extra carries the optional follow-up fields of a request.
type Extra struct {
	// FollowupAnswers maps question IDs to answers. Unanswered questions
	// are absent.
	FollowupAnswers map[string]model.Answer

	// FollowupSubmitted marks a refinement round.
	FollowupSubmitted bool
}

// Coordinator owns the single in-flight request invariant.
// It is safe for concurrent use; concurrent callers get ErrBusy.
type Coordinator struct {
	analyzer Analyzer
	animator Animator
	busy     atomic.Bool
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithAnimator sets the progress animator. Without one, no progress is shown.
func WithAnimator(a Animator) Option {
	return func(c *Coordinator) {
		c.animator = a
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCoordinator creates a Coordinator that sends requests to analyzer.
func NewCoordinator(analyzer Analyzer, opts ...Option) *Coordinator {
	c := &Coordinator{
		analyzer: analyzer,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Busy reports whether a submission is in flight.
func (c *Coordinator) Busy() bool {
	return c.busy.Load()
}

// Submit classifies message and returns the finished report.
//
// The message is trimmed; an empty message returns ErrEmptyMessage and a
// submission made while another is in flight returns ErrBusy, both without
// any network call, as does a cancelled ctx. Otherwise the classifier call and the progress
// animation run concurrently and Submit returns only after both are done.
// Progress lines go to sink, which may be nil.
//
// Classifier failures are returned unchanged (a *classifier.NetworkError for
// the HTTP client). If the classifier fails, the animation is cut short.
func (c *Coordinator) Submit(ctx context.Context, message string, extra Extra, sink func(string)) (*Report, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !c.busy.CompareAndSwap(false, true) {
		c.logger.Debug("submission dropped: scan in progress")
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	req := model.ScanRequest{
		Message:           message,
		FollowupSubmitted: extra.FollowupSubmitted,
	}
	if len(extra.FollowupAnswers) > 0 {
		req.FollowupAnswers = maps.Clone(extra.FollowupAnswers)
	}

	c.logger.Info("scan started", append(log.MessageAttrs(message), "refinement", extra.FollowupSubmitted)...)
	start := c.now()

	var result *model.ScanResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := c.analyzer.Analyze(gctx, req)
		if err != nil {
			return err
		}
		if r == nil {
			return errors.New("classifier returned no result")
		}
		result = r
		return nil
	})
	if c.animator != nil {
		g.Go(func() error {
			c.animator.Play(gctx, sink)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Warn("scan failed", "error", err)
		return nil, err
	}

	completed := c.now()
	report := NewReport(message, *result, extra.FollowupSubmitted, completed)
	report.Elapsed = completed.Sub(start)

	c.logger.Info("scan completed",
		"verdict", report.Verdict.String(),
		"probability", report.Result.Probability,
		"elapsed", report.Elapsed,
	)

	return report, nil
}

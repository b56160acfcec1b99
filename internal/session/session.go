package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/scamscan/internal/database"
	"github.com/nao1215/scamscan/internal/followup"
	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/scan"
)

// Session is the orchestrator of one user session.
// It is safe for concurrent use; scans and refinements share the
// coordinator's single in-flight slot.
type Session struct {
	coordinator *scan.Coordinator
	controller  *followup.Controller
	stats       *Stats
	history     *database.HistoryDB
	logger      *slog.Logger
	now         func() time.Time

	// coordinatorOpts and effectHandler are only used during construction.
	coordinatorOpts []scan.Option
	effectHandler   func(followup.Effect)

	mu      sync.RWMutex
	current *scan.Report

	seedOnce sync.Once
}

// Option configures a Session.
type Option func(*Session)

// WithAnimator sets the progress animator used for every submission.
func WithAnimator(a scan.Animator) Option {
	return func(s *Session) {
		s.coordinatorOpts = append(s.coordinatorOpts, scan.WithAnimator(a))
	}
}

// WithHistory records every report in h. The caller owns h.
func WithHistory(h *database.HistoryDB) Option {
	return func(s *Session) {
		s.history = h
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithEffectHandler receives the follow-up dialog effects, in order.
func WithEffectHandler(fn func(followup.Effect)) Option {
	return func(s *Session) {
		s.effectHandler = fn
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Session that classifies through analyzer.
func New(analyzer scan.Analyzer, opts ...Option) *Session {
	s := &Session{
		stats: &Stats{},
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	copts := append([]scan.Option{
		scan.WithLogger(s.logger),
		scan.WithClock(s.now),
	}, s.coordinatorOpts...)
	s.coordinator = scan.NewCoordinator(analyzer, copts...)

	fopts := []followup.ControllerOption{followup.WithLogger(s.logger)}
	if s.effectHandler != nil {
		fopts = append(fopts, followup.WithEffectHandler(s.effectHandler))
	}
	s.controller = followup.NewController(s.coordinator, fopts...)

	s.coordinatorOpts = nil
	return s
}

// Scan classifies message, counts it, and makes it the current report.
// On failure the current report is left untouched.
func (s *Session) Scan(ctx context.Context, message string, sink func(string)) (*scan.Report, error) {
	report, err := s.coordinator.Submit(ctx, message, scan.Extra{}, sink)
	if err != nil {
		return nil, err
	}

	s.stats.RecordScan(report.Verdict)
	s.record(ctx, report)
	s.setCurrent(report)
	s.controller.Show(report)

	return report, nil
}

// Refine resubmits the current message with the selected follow-up answers.
// A successful refinement replaces the current report; counters are not
// changed. Errors are *followup.RefinementError, or followup.ErrNotAwaiting
// when no questions are open.
func (s *Session) Refine(ctx context.Context, sink func(string)) (*scan.Report, error) {
	report, err := s.controller.Refine(ctx, sink)
	if err != nil {
		return nil, err
	}

	s.record(ctx, report)
	s.setCurrent(report)

	return report, nil
}

// SelectAnswer answers an open follow-up question.
func (s *Session) SelectAnswer(questionID string, answer model.Answer) error {
	return s.controller.SelectAnswer(questionID, answer)
}

// ClearAnswer withdraws the answer to an open follow-up question.
func (s *Session) ClearAnswer(questionID string) error {
	return s.controller.ClearAnswer(questionID)
}

// Seed applies the initial state. Only the first call has any effect; it
// returns true when it showed a report. A result is counted like a live
// scan.
func (s *Session) Seed(ctx context.Context, st *InitialState) bool {
	seeded := false
	s.seedOnce.Do(func() {
		if st == nil || !st.HasResult {
			return
		}

		report := scan.NewReport(st.Result.Message, st.Result, false, s.now())
		s.stats.RecordScan(report.Verdict)
		s.record(ctx, report)
		s.setCurrent(report)
		s.controller.Show(report)

		s.logger.Debug("seeded initial state", "verdict", report.Verdict.String())
		seeded = true
	})
	return seeded
}

// Current returns the report on display, or nil before the first scan.
func (s *Session) Current() *scan.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// FollowupState returns the state of the follow-up dialog.
func (s *Session) FollowupState() followup.State {
	return s.controller.State()
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	return s.coordinator.Busy()
}

// Stats returns the session counters.
func (s *Session) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// History returns the most recent history entries, or nil when the session
// has no history store.
func (s *Session) History(ctx context.Context, limit int) ([]database.Entry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(ctx, limit)
}

// setCurrent replaces the current report.
func (s *Session) setCurrent(r *scan.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = r
}

// record appends r to the history. History is best effort.
func (s *Session) record(ctx context.Context, r *scan.Report) {
	if s.history == nil {
		return
	}
	entry := database.NewEntry(r.Message, r.Result, r.Refined, r.CompletedAt)
	if _, err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record history", "error", err)
	}
}

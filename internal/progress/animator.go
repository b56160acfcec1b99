package progress

import (
	"context"
	"iter"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

// DefaultSteps are the progress lines emitted for every request.
var DefaultSteps = []string{
	"Tokenizing input message...",
	"Running ML inference (TF-IDF + Logistic Regression)...",
	"Computing class probability...",
	"Extracting top contributing terms...",
	"Generating safety response (LLM)...",
	"Finalizing report...",
}

// Default delay range between steps.
const (
	DefaultMinDelay = 220 * time.Millisecond
	DefaultMaxDelay = 360 * time.Millisecond
)

// SleepFunc pauses for d or until ctx is done.
// It returns false if the pause was cut short by ctx.
type SleepFunc func(ctx context.Context, d time.Duration) bool

// Animator emits the progress steps with a random pause after each one.
// It is safe for concurrent use; each Sequence call is independent.
type Animator struct {
	steps    []string
	minDelay time.Duration
	maxDelay time.Duration
	disabled bool
	sleep    SleepFunc

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Animator.
type Option func(*Animator)

// WithSteps replaces the default progress lines.
func WithSteps(steps ...string) Option {
	return func(a *Animator) {
		a.steps = slices.Clone(steps)
	}
}

// WithDelay sets the pause range [minDelay, maxDelay).
// Invalid ranges are ignored.
func WithDelay(minDelay, maxDelay time.Duration) Option {
	return func(a *Animator) {
		if minDelay < 0 || maxDelay < minDelay {
			return
		}
		a.minDelay = minDelay
		a.maxDelay = maxDelay
	}
}

// WithDisabled makes the animator emit nothing.
func WithDisabled(disabled bool) Option {
	return func(a *Animator) {
		a.disabled = disabled
	}
}

// WithSleep replaces the pause implementation, mainly for tests.
func WithSleep(sleep SleepFunc) Option {
	return func(a *Animator) {
		if sleep != nil {
			a.sleep = sleep
		}
	}
}

// WithRand sets the random source used to pick pauses.
func WithRand(src rand.Source) Option {
	return func(a *Animator) {
		if src != nil {
			a.rng = rand.New(src) //nolint:gosec // cosmetic delays
		}
	}
}

// New creates an Animator with the default steps and delay range.
func New(opts ...Option) *Animator {
	a := &Animator{
		steps:    slices.Clone(DefaultSteps),
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
		sleep:    sleepContext,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // cosmetic delays
	}

	return a
}

// Steps returns a copy of the progress lines.
func (a *Animator) Steps() []string {
	return slices.Clone(a.steps)
}

// Disabled reports whether the animator emits nothing.
func (a *Animator) Disabled() bool {
	return a.disabled
}

// Sequence returns the progress lines as a lazy sequence. Each line is
// yielded and then followed by a random pause, so iterating the whole
// sequence takes roughly len(steps) * average delay. The sequence ends
// early when ctx is done or the consumer stops; it can be iterated again.
func (a *Animator) Sequence(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		if a.disabled {
			return
		}
		for _, step := range a.steps {
			if ctx.Err() != nil {
				return
			}
			if !yield(step) {
				return
			}
			if !a.sleep(ctx, a.delay()) {
				return
			}
		}
	}
}

// Play drives the sequence into sink and returns the number of lines
// delivered. A nil sink still waits out the pauses.
func (a *Animator) Play(ctx context.Context, sink func(string)) int {
	n := 0
	for step := range a.Sequence(ctx) {
		if sink != nil {
			sink(step)
		}
		n++
	}
	return n
}

// delay picks a pause in [minDelay, maxDelay).
func (a *Animator) delay() time.Duration {
	span := a.maxDelay - a.minDelay
	if span <= 0 {
		return a.minDelay
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.minDelay + time.Duration(a.rng.Int64N(int64(span)))
}

// sleepContext waits for d unless ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

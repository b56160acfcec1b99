package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
)

// mockStep records its executions.
type mockStep struct {
	name     string
	err      error
	executed bool
}

func (s *mockStep) Name() string { return s.name }

func (s *mockStep) Do(_ context.Context, job *Job) error {
	s.executed = true
	job.Message += "+" + s.name
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNew tests pipeline construction.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with defaults", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p.logger == nil {
			t.Error("expected default logger")
		}
		if p.continueOnError {
			t.Error("expected continueOnError to default to false")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()

		logger := discardLogger()
		p := New(WithLogger(logger), WithContinueOnError(true))
		if p.logger != logger {
			t.Error("expected custom logger")
		}
		if !p.continueOnError {
			t.Error("expected continueOnError")
		}
	})

	t.Run("keeps step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "a"})
		p.AddSteps(&mockStep{name: "b"}, &mockStep{name: "c"})

		if got := p.StepNames(); !slices.Equal(got, []string{"a", "b", "c"}) {
			t.Errorf("unexpected step names %v", got)
		}
	})
}

// TestExecute tests step execution.
func TestExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		p := New(WithLogger(discardLogger()))
		p.AddSteps(&mockStep{name: "a"}, &mockStep{name: "b"})

		job := &Job{Message: "m"}
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Message != "m+a+b" {
			t.Errorf("unexpected order %q", job.Message)
		}
		if !slices.Equal(job.Steps, []string{"a", "b"}) {
			t.Errorf("unexpected completed steps %v", job.Steps)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		second := &mockStep{name: "b"}
		p := New(WithLogger(discardLogger()))
		p.AddSteps(&mockStep{name: "a", err: errBoom}, second)

		job := &Job{}
		if err := p.Execute(context.Background(), job); !errors.Is(err, errBoom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if second.executed {
			t.Error("second step must not run")
		}
		if !errors.Is(job.Err, errBoom) {
			t.Error("expected error recorded in job")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		second := &mockStep{name: "b"}
		p := New(WithLogger(discardLogger()), WithContinueOnError(true))
		p.AddSteps(&mockStep{name: "a", err: errBoom}, second)

		job := &Job{}
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !second.executed {
			t.Error("second step should run")
		}
		if !errors.Is(job.Err, errBoom) {
			t.Error("expected error recorded in job")
		}
		if !slices.Equal(job.Steps, []string{"b"}) {
			t.Errorf("failed steps must not be listed, got %v", job.Steps)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "a"}
		p := New(WithLogger(discardLogger()))
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		job := &Job{}
		if err := p.Execute(ctx, job); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if step.executed {
			t.Error("step must not run after cancellation")
		}
	})
}

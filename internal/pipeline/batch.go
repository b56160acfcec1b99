package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Batch feeds messages through a pipeline one after another.
type Batch struct {
	pipeline *Pipeline
	logger   *slog.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// NewBatch creates a Batch over p.
func NewBatch(p *Pipeline, opts ...BatchOption) *Batch {
	b := &Batch{pipeline: p}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Process runs every message through the pipeline and returns the jobs in
// input order. callback, when not nil, is called after each job.
//
// A failing message does not stop the batch; its error is kept in the job.
// Process returns an error only when ctx is cancelled, together with the
// jobs finished so far.
func (b *Batch) Process(ctx context.Context, messages []string, callback func(job *Job)) ([]*Job, error) {
	b.logger.Info("starting batch", "total", len(messages))
	start := time.Now()

	jobs := make([]*Job, 0, len(messages))
	for i, message := range messages {
		if err := ctx.Err(); err != nil {
			return jobs, err
		}

		job := &Job{Index: i, Message: message}
		_ = b.pipeline.Execute(ctx, job) //nolint:errcheck // error is stored in job
		jobs = append(jobs, job)

		if callback != nil {
			callback(job)
		}
	}

	b.logger.Info("batch complete", "total", len(messages), "elapsed", time.Since(start))
	return jobs, ctx.Err()
}

// ReadMessages reads one message per line from r. Blank lines and lines
// starting with '#' are skipped.
func ReadMessages(r io.Reader) ([]string, error) {
	var messages []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		messages = append(messages, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return messages, nil
}

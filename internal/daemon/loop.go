package daemon

import (
	"context"
	"log/slog"
	"time"

	"poolconv/internal/logging"
	"poolconv/internal/pipeline"
)

// CandidateLister yields the clips waiting for conversion on each poll.
type CandidateLister interface {
	Candidates(ctx context.Context) ([]pipeline.Task, error)
}

// Loop is the scheduler: it polls for candidates, dispatches a bounded batch
// to the worker pool, waits for the batch, sleeps, and repeats.
type Loop struct {
	Lister       CandidateLister
	Pool         *pipeline.Pool
	Process      func(ctx context.Context, task pipeline.Task) error
	BatchSize    int
	PollInterval time.Duration
	BatchTimeout time.Duration
	Logger       *slog.Logger
}

// Run polls until ctx is canceled. Shutdown is cooperative: in-flight
// conversions are handed a context that survives cancellation, so the loop
// stops scheduling new batches but never kills a running encode.
func (l *Loop) Run(ctx context.Context) error {
	logger := logging.NewComponentLogger(l.Logger, "scheduler")
	workCtx := context.WithoutCancel(ctx)

	for {
		if ctx.Err() != nil {
			logger.Info("scheduler stopped")
			return nil
		}

		tasks, err := l.Lister.Candidates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("scheduler stopped")
				return nil
			}
			// Listing failures are transient; keep polling.
			logger.Warn("candidate poll failed", logging.Error(err))
		}

		if len(tasks) > 0 {
			batch := tasks
			if len(batch) > l.BatchSize {
				// Excess candidates stay in the catalog and are
				// re-discovered next poll.
				batch = batch[:l.BatchSize]
			}
			logger.Info("dispatching batch",
				logging.Int("candidates", len(tasks)),
				logging.Int("batch", len(batch)))

			result := l.Pool.RunBatch(workCtx, batch, l.BatchTimeout, l.Process)
			logger.Info("batch finished",
				logging.Int("completed", result.Completed),
				logging.Int("failed", result.Failed),
				logging.Int("abandoned", result.Abandoned))
		}

		select {
		case <-ctx.Done():
			logger.Info("scheduler stopped")
			return nil
		case <-time.After(l.PollInterval):
		}
	}
}

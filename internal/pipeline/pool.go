package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"poolconv/internal/logging"
)

// BatchResult summarizes one dispatched batch.
type BatchResult struct {
	Completed int
	Failed    int
	Abandoned int
}

// Pool runs tasks with bounded concurrency.
type Pool struct {
	workers int
	logger  *slog.Logger
}

// NewPool constructs a Pool with at most workers concurrent tasks.
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		logger:  logging.NewComponentLogger(logger, "pool"),
	}
}

// RunBatch processes every task and waits until all finish or timeout
// elapses. Tasks still running at the timeout are abandoned, not canceled:
// they keep their worker slot and run to completion. A task failure is
// isolated; it never aborts its siblings.
func (p *Pool) RunBatch(ctx context.Context, tasks []Task, timeout time.Duration, process func(context.Context, Task) error) BatchResult {
	if len(tasks) == 0 {
		return BatchResult{}
	}

	var completed, failed atomic.Int64
	var wg sync.WaitGroup
	slots := make(chan struct{}, p.workers)

	for _, task := range tasks {
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()

			if err := process(ctx, task); err != nil {
				p.logger.Error("task failed",
					logging.String(logging.FieldClip, task.BaseName),
					logging.Error(err))
				failed.Add(1)
				return
			}
			completed.Add(1)
		}(task)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		p.logger.Warn("batch timeout, abandoning stragglers",
			logging.Duration("timeout", timeout))
	}

	result := BatchResult{
		Completed: int(completed.Load()),
		Failed:    int(failed.Load()),
	}
	result.Abandoned = len(tasks) - result.Completed - result.Failed
	return result
}

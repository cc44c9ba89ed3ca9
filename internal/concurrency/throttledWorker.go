package concurrency

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ThrottledWorker runs a job for each argument in turn, waiting interval between
// jobs. It is a courtesy throttle so a burst of commands does not flood the bridge;
// nothing relies on it for ordering.
type ThrottledWorker struct {
	interval    time.Duration
	jobCallback func(ctx context.Context, arg string) error
}

func NewThrottledWorker(interval time.Duration, jobCallback func(ctx context.Context, arg string) error) ThrottledWorker {
	return ThrottledWorker{interval: interval, jobCallback: jobCallback}
}

// Run calls the job once per argument, in order. A failing job does not stop the
// rest; the failures are returned joined. Cancelling ctx stops before the next job.
func (w *ThrottledWorker) Run(ctx context.Context, jobArgs []string) error {

	jobArgsChannel := make(chan string, len(jobArgs))

	for _, arg := range jobArgs {
		jobArgsChannel <- arg
	}
	close(jobArgsChannel)

	var limiter <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		limiter = ticker.C
	}

	var errs []error
	first := true
	for arg := range jobArgsChannel {
		if !first && limiter != nil {
			select {
			case <-ctx.Done():
			case <-limiter:
			}
		}
		first = false

		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := w.jobCallback(ctx, arg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", arg, err))
		}
	}

	return errors.Join(errs...)
}

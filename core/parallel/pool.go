package parallel

import (
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
)

// Partition splits total tokens across workers queues. Worker i receives
// total/workers tokens, plus one when i < total%workers, so the share of each
// worker is fixed by total and workers alone.
func Partition(total, workers int) []*WorkQueue {
	if workers < 1 {
		workers = 1
	}
	queues := make([]*WorkQueue, workers)
	base, extra := total/workers, total%workers
	for i := range queues {
		n := base
		if i < extra {
			n++
		}
		queues[i] = NewWorkQueue(n)
	}
	return queues
}

// DrainOption configures Drain.
type DrainOption func(*drainConfig)

type drainConfig struct {
	onStart func(workerID int)
	onStop  func(workerID int)
}

// WithWorkerHooks sets callbacks run on the worker goroutine when it starts and
// when it returns, including after a failure. Either may be nil.
func WithWorkerHooks(onStart, onStop func(workerID int)) DrainOption {
	return func(c *drainConfig) {
		c.onStart = onStart
		c.onStop = onStop
	}
}

// Drain runs one goroutine per queue. Worker i takes tokens only from
// queues[i] and calls task(i) for each until its queue is empty. It blocks
// until every worker has returned.
//
// The first task error closes every queue, so the other workers stop after
// their in-flight task, and is returned. A panicking task is reported as a
// ConcurrencyFailureError wrapping the PanicError.
func Drain(queues []*WorkQueue, task func(workerID int) error, opts ...DrainOption) error {
	var cfg drainConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		wg       conc.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		for _, q := range queues {
			q.Close()
		}
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for id, q := range queues {
		id, q := id, q
		wg.Go(func() {
			if cfg.onStart != nil {
				cfg.onStart(id)
			}
			if cfg.onStop != nil {
				defer cfg.onStop(id)
			}
			for q.TryDequeue() {
				err := errors.SafeExecute("parallel.Drain", func() error {
					return task(id)
				})
				if err == nil {
					continue
				}
				var panicErr *errors.PanicError
				if errors.As(err, &panicErr) {
					err = errors.NewConcurrencyFailureError("parallel.Drain", err)
				}
				fail(err)
				return
			}
		})
	}

	if recovered := wg.WaitAndRecover(); recovered != nil {
		return errors.NewConcurrencyFailureError("parallel.Drain", recovered.AsError())
	}
	return firstErr
}

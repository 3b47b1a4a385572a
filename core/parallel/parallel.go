package parallel

import (
	"runtime"

	"github.com/sourcegraph/conc"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
)

// Parallelize divides items into contiguous ranges, one per CPU core,
// and runs fn(start, end) for each range concurrently.
func Parallelize(items int, fn func(start, end int)) error {
	return ParallelizeN(items, runtime.NumCPU(), fn)
}

// ParallelizeN is Parallelize with an explicit upper bound on goroutines.
// A panic in fn is returned as a ConcurrencyFailureError.
func ParallelizeN(items, workers int, fn func(start, end int)) error {
	if items <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > items {
		workers = items
	}

	// ceiling division
	chunkSize := (items + workers - 1) / workers

	var wg conc.WaitGroup
	for start := 0; start < items; start += chunkSize {
		start := start
		end := min(start+chunkSize, items)
		wg.Go(func() {
			fn(start, end)
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		return errors.NewConcurrencyFailureError("parallel.ParallelizeN", recovered.AsError())
	}
	return nil
}

// ParallelizeWithThreshold runs fn sequentially when items is at most threshold.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) error {
	if items <= threshold {
		return errors.SafeExecute("parallel.ParallelizeWithThreshold", func() error {
			fn(0, items)
			return nil
		})
	}
	return Parallelize(items, fn)
}

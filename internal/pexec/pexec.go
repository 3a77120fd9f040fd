// Package pexec implements the three permissible internal parallel
// regions: large-frame (>10 000 rows) JSON encoding, vectorized frame
// aggregation, and codec I/O. It is a context-cancellable, WaitGroup-
// joined bounded worker pool trimmed down to the one job shape these
// regions need: apply a pure per-chunk function and collect results in
// index order. These regions are private and never observe or mutate
// the execution context — pexec never touches exec.Context.
package pexec

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelThreshold is the row count above which §5's large-frame
// JSON-encode region switches from sequential to parallel.
const ParallelThreshold = 10000

// MapChunks splits n items into bounded-concurrency chunks, applies fn
// to each chunk's index range, and returns results in chunk order. A
// positive threads caps concurrency; zero or less uses GOMAXPROCS.
func MapChunks(ctx context.Context, n, threads int, fn func(start, end int) (interface{}, error)) ([]interface{}, error) {
	if n == 0 {
		return nil, nil
	}
	workers := threads
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	results := make([]interface{}, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			r, err := fn(start, end)
			if err != nil {
				return err
			}
			results[w] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

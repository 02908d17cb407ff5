// Package fileproc provides bounded concurrent processing utilities for
// batches of repository files.
package fileproc

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkers is the bounded worker count for batch fan-out. Ownership
// reconstruction is git-I/O bound, so a small fixed pool beats NumCPU.
const DefaultWorkers = 3

// DefaultBatchSize is the number of files handed to a worker per batch.
const DefaultBatchSize = 10

// Batches splits items into contiguous chunks of at most size elements.
func Batches[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}

// MapBatches fans batches out over a bounded pool and collects each
// worker's complete sub-result. Workers never touch shared aggregation
// state; the caller folds the returned sub-results on its own goroutine.
// A failing batch's output is omitted, not retried. Context cancellation
// stops scheduling and is reported once in-flight workers return.
func MapBatches[T any, R any](ctx context.Context, batches [][]T, maxWorkers int, fn func(context.Context, []T) (R, error)) ([]R, error) {
	if len(batches) == 0 {
		return nil, ctx.Err()
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers
	}

	results := make([]R, 0, len(batches))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for _, batch := range batches {
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := fn(ctx, batch)
			if err != nil {
				// Best-effort: skip the batch, keep the rest.
				return nil
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MapBatchesWithResource is MapBatches with a per-worker resource (e.g. a
// git repository handle) created up front and released after the pool
// drains.
func MapBatchesWithResource[T any, R any, S any](
	ctx context.Context,
	batches [][]T,
	maxWorkers int,
	initResource func() (S, error),
	closeResource func(S),
	fn func(context.Context, S, []T) (R, error),
) ([]R, error) {
	if len(batches) == 0 {
		return nil, ctx.Err()
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers
	}

	type wrapper struct {
		resource S
		valid    bool
	}
	resources := make(chan *wrapper, maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		r, err := initResource()
		if err != nil {
			resources <- &wrapper{valid: false}
			continue
		}
		resources <- &wrapper{resource: r, valid: true}
	}

	results := make([]R, 0, len(batches))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for _, batch := range batches {
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			w := <-resources
			defer func() { resources <- w }()
			if !w.valid {
				return nil
			}

			result, err := fn(ctx, w.resource, batch)
			if err != nil {
				return nil
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	waitErr := p.Wait()

	close(resources)
	for w := range resources {
		if w.valid && closeResource != nil {
			closeResource(w.resource)
		}
	}

	if waitErr != nil {
		return nil, waitErr
	}
	return results, nil
}

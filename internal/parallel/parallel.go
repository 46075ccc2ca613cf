// Package parallel provides worker-partitioned execution for valuation runs.
//
// Work is split into contiguous chunks, one per worker. Each chunk is driven by
// a single goroutine, so per-worker state (a tape, a scratch buffer) indexed by
// the worker id is never shared.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1, // Each item is a full valuation.
	}
}

// Sequential returns a config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// chunk returns the chunk size for n items, or n when the work should run
// sequentially.
func (c Config) chunk(n int) int {
	if !c.Enabled || c.NumWorkers <= 1 || n < 2*max(c.MinChunkSize, 1) {
		return max(n, 1)
	}
	return max((n+c.NumWorkers-1)/c.NumWorkers, c.MinChunkSize)
}

// Workers returns how many workers For, ForWorker and Run use for n items.
// Worker ids passed to callbacks are in [0, Workers(n)).
func (c Config) Workers(n int) int {
	if n <= 0 {
		return 0
	}
	size := c.chunk(n)
	return (n + size - 1) / size
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	ForWorker(n, func(_, i int) { f(i) }, cfg)
}

// ForWorker executes f(worker, i) for i in [0, n). All items of one worker run
// sequentially on the same goroutine.
func ForWorker(n int, f func(worker, i int), cfg Config) {
	if n <= 0 {
		return
	}
	size := cfg.chunk(n)
	if size >= n {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			f(0, i)
		}
		return
	}

	var wg sync.WaitGroup
	for w, start := 0, 0; start < n; w, start = w+1, start+size {
		end := min(start+size, n)
		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(w, i)
			}
		}(w, start, end)
	}
	wg.Wait()
}

// ForBatch iterates over an outer × inner grid, e.g. inputs × bump directions.
func ForBatch(outer, inner int, f func(o, i int), cfg Config) {
	n := outer * inner
	For(n, func(k int) {
		f(k/inner, k%inner)
	}, cfg)
}

// Run executes f(ctx, worker, i) for i in [0, n) and returns the first error.
// After a failure or cancellation of ctx, workers stop picking up new items.
func Run(ctx context.Context, n int, cfg Config, f func(ctx context.Context, worker, i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	size := cfg.chunk(n)
	g, ctx := errgroup.WithContext(ctx)
	for w, start := 0, 0; start < n; w, start = w+1, start+size {
		w, start, end := w, start, min(start+size, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := f(ctx, w, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

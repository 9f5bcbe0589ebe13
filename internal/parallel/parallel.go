// Package parallel provides bounded fan-out helpers for independent work items.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Maximum number of goroutines running f at once.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// WithWorkers returns a config limited to n workers; n <= 1 disables
// parallelism.
func WithWorkers(n int) Config {
	return Config{Enabled: n > 1, NumWorkers: max(n, 1)}
}

// For executes f(ctx, i) for i in [0, n).
//
// At most cfg.NumWorkers calls run concurrently. The first non-nil error
// cancels the context passed to the remaining calls, stops scheduling new
// ones, and is returned. Work items must not share mutable state except
// through index-owned slots (e.g. results[i]).
func For(ctx context.Context, n int, cfg Config, f func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n == 1 {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := f(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(cfg.NumWorkers, n))
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return f(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Package workers runs independent evaluations on a bounded set of
// goroutines.
package workers

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of evaluations running at once.
type Pool struct {
	size int
}

// New creates a pool. A non-positive size means GOMAXPROCS.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{size: size}
}

func (p *Pool) Size() int {
	if p == nil {
		return 1
	}
	return p.size
}

// Run calls fn for each index in [0, n). Cancelling ctx stops scheduling
// further indexes; calls already started run to completion. Run returns
// ctx.Err() when some indexes were never scheduled.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	if n == 0 {
		return nil
	}
	var (
		g       errgroup.Group
		skipped atomic.Bool
	)
	g.SetLimit(p.Size())
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			skipped.Store(true)
			break
		}
		i := i
		g.Go(func() error {
			// queued behind a call that may have cancelled ctx
			if ctx.Err() != nil {
				skipped.Store(true)
				return nil
			}
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	if skipped.Load() {
		return ctx.Err()
	}
	return nil
}

// Map calls fn for each index in [0, n) and collects the values in index
// order. The first error cancels the remaining calls and is returned.
func Map[V any](ctx context.Context, p *Pool, n int, fn func(ctx context.Context, i int) (V, error)) ([]V, error) {
	out := make([]V, n)
	if n == 0 {
		return out, nil
	}
	if p.Size() == 1 || n == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			v, err := fn(ctx, i)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Size())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(gctx, i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

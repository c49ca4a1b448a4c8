package calc

import (
	"context"
	"fmt"

	"github.com/rustyeddy/measures/scenario"
	"github.com/rustyeddy/measures/workers"
)

// Env is handed to every calculation. It carries the invocation's context
// and worker pool.
type Env struct {
	ctx  context.Context
	pool *workers.Pool
}

// NewEnv is used by tests and callers invoking calculations directly.
func NewEnv(ctx context.Context, pool *workers.Pool) Env {
	if ctx == nil {
		ctx = context.Background()
	}
	return Env{ctx: ctx, pool: pool}
}

func (e Env) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

func (e Env) Pool() *workers.Pool { return e.pool }

// Scenarios evaluates fn once per scenario on the pool and collects the
// values in scenario order. The first failing scenario fails the whole
// array.
func Scenarios[S any](env Env, n int, fn func(i int) (S, error)) (scenario.Array[S], error) {
	vals, err := workers.Map(env.Context(), env.pool, n, func(_ context.Context, i int) (S, error) {
		v, err := fn(i)
		if err != nil {
			return v, fmt.Errorf("scenario %d: %w", i, err)
		}
		return v, nil
	})
	if err != nil {
		return scenario.Array[S]{}, err
	}
	return scenario.ArrayOf(vals...), nil
}

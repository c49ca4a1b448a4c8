// Package calc is the measure dispatch engine: it declares market data
// requirements for a target, resolves the target once and evaluates each
// requested measure independently.
package calc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/lookup"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/measure"
	"github.com/rustyeddy/measures/params"
	"github.com/rustyeddy/measures/refdata"
	"github.com/rustyeddy/measures/result"
	"github.com/rustyeddy/measures/workers"
)

// ErrResolution is returned when a target cannot be resolved. It aborts the
// whole batch.
var ErrResolution = errors.New("target resolution failed")

// Resolver turns a raw target into its resolved form R. Resolution must be
// deterministic for immutable reference data.
type Resolver[R any] interface {
	Resolve(refData refdata.ReferenceData) (R, error)
}

// Spec describes one target type to NewFunction.
type Spec[T Resolver[R], R, V any] struct {
	TargetType string
	Table      Table[R, V]

	// Identifier is optional.
	Identifier      func(target T) (string, bool)
	NaturalCurrency func(target T, refData refdata.ReferenceData) (currency.Currency, error)
	Requirements    func(target T, measures []measure.Measure, ps params.Parameters, refData refdata.ReferenceData) (marketdata.Requirements, error)
	View            func(ps params.Parameters, md marketdata.ScenarioMarketData) (V, error)
}

type options struct {
	workers int
	log     zerolog.Logger
}

type Option func(*options)

// WithWorkers bounds concurrent evaluations. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Function calculates measures for targets of type T.
type Function[T Resolver[R], R, V any] struct {
	spec Spec[T, R, V]
	opts options
}

func NewFunction[T Resolver[R], R, V any](spec Spec[T, R, V], opts ...Option) *Function[T, R, V] {
	if spec.TargetType == "" {
		panic("calc: target type is required")
	}
	if spec.Requirements == nil || spec.View == nil || spec.NaturalCurrency == nil {
		panic(fmt.Sprintf("calc: incomplete spec for %s", spec.TargetType))
	}
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Function[T, R, V]{spec: spec, opts: o}
}

// With returns a copy with extra options applied.
func (f *Function[T, R, V]) With(opts ...Option) *Function[T, R, V] {
	out := *f
	for _, opt := range opts {
		opt(&out.opts)
	}
	return &out
}

func (f *Function[T, R, V]) TargetType() string { return f.spec.TargetType }

func (f *Function[T, R, V]) SupportedMeasures() []measure.Measure {
	return f.spec.Table.Measures()
}

func (f *Function[T, R, V]) Identifier(target T) (string, bool) {
	if f.spec.Identifier == nil {
		return "", false
	}
	return f.spec.Identifier(target)
}

func (f *Function[T, R, V]) NaturalCurrency(target T, refData refdata.ReferenceData) (currency.Currency, error) {
	return f.spec.NaturalCurrency(target, refData)
}

// Requirements declares the market data needed to calculate measures for
// target. It needs no market data and is deterministic.
func (f *Function[T, R, V]) Requirements(target T, measures []measure.Measure, ps params.Parameters, refData refdata.ReferenceData) (marketdata.Requirements, error) {
	reqs, err := f.spec.Requirements(target, measures, ps, refData)
	if err != nil {
		return marketdata.Requirements{}, fmt.Errorf("%s requirements: %w", f.spec.TargetType, err)
	}
	return reqs, nil
}

// Calculate resolves target once, builds the lookup view once and then
// evaluates every requested measure on the worker pool. Each measure gets
// exactly one result. Failures are captured per measure; only resolution,
// parameter and view errors are returned. Measures left unscheduled by a
// cancelled ctx are reported as Cancelled failures.
func (f *Function[T, R, V]) Calculate(
	ctx context.Context,
	target T,
	measures []measure.Measure,
	ps params.Parameters,
	md marketdata.ScenarioMarketData,
	refData refdata.ReferenceData,
) (map[measure.Measure]result.Result[any], error) {

	log := f.opts.log.With().Str("target", f.spec.TargetType).Logger()
	if id, ok := f.Identifier(target); ok {
		log = log.With().Str("id", id).Logger()
	}

	// resolve the target once for all measures and all scenarios
	start := time.Now()
	resolved, err := target.Resolve(refData)
	if err != nil {
		log.Error().Err(err).Msg("resolve target")
		return nil, fmt.Errorf("%s: %w: %w", f.spec.TargetType, ErrResolution, err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("target resolved")

	view, err := f.spec.View(ps, md)
	if err != nil {
		return nil, fmt.Errorf("%s market data view: %w", f.spec.TargetType, err)
	}

	ms := distinct(measures)
	out := make([]result.Result[any], len(ms))
	done := make([]bool, len(ms))

	pool := workers.New(f.opts.workers)
	env := Env{ctx: ctx, pool: pool}
	runErr := pool.Run(ctx, len(ms), func(ctx context.Context, i int) {
		out[i] = f.calculate(env, ms[i], resolved, view)
		done[i] = true
	})

	results := make(map[measure.Measure]result.Result[any], len(ms))
	for i, m := range ms {
		r := out[i]
		if !done[i] {
			r = result.FailureOf[any](result.Cancelled, "Calculation cancelled before %s was evaluated: %v", m, runErr)
		}
		if fl := r.Failure(); fl != nil {
			log.Warn().Str("measure", m.Name()).Str("reason", string(fl.Reason)).Msg(fl.Message)
		}
		results[m] = r
	}
	return results, nil
}

// calculate one measure
func (f *Function[T, R, V]) calculate(env Env, m measure.Measure, resolved R, view V) result.Result[any] {
	fn, ok := f.spec.Table.Lookup(m)
	if !ok {
		return result.FailureOf[any](result.Unsupported, "Unsupported measure for %s: %s", f.spec.TargetType, m)
	}
	return result.Of(func() (any, error) {
		v, err := fn(env, resolved, view)
		if err != nil {
			return nil, Classify(err)
		}
		return v, nil
	})
}

// Classify attaches a failure reason to errors raised inside a calculation.
func Classify(err error) error {
	var f *result.Failure
	switch {
	case errors.As(err, &f):
		return err
	case errors.Is(err, marketdata.ErrMissingValue), errors.Is(err, lookup.ErrNoMapping):
		return result.Wrap(result.MissingData, err)
	case errors.Is(err, params.ErrMissingParameter):
		return result.Wrap(result.MissingParameter, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return result.Wrap(result.Cancelled, err)
	default:
		return result.Wrap(result.CalculationFailed, err)
	}
}

func distinct(ms []measure.Measure) []measure.Measure {
	seen := make(map[measure.Measure]struct{}, len(ms))
	out := make([]measure.Measure, 0, len(ms))
	for _, m := range ms {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

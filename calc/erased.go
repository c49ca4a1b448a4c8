package calc

import (
	"context"
	"fmt"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/measure"
	"github.com/rustyeddy/measures/params"
	"github.com/rustyeddy/measures/refdata"
	"github.com/rustyeddy/measures/result"
)

// AnyFunction is a Function with its target type erased, for registries
// that hold functions of several target types.
type AnyFunction interface {
	TargetType() string
	SupportedMeasures() []measure.Measure
	Accepts(target any) bool
	Identifier(target any) (string, bool)
	NaturalCurrency(target any, refData refdata.ReferenceData) (currency.Currency, error)
	Requirements(target any, measures []measure.Measure, ps params.Parameters, refData refdata.ReferenceData) (marketdata.Requirements, error)
	Calculate(ctx context.Context, target any, measures []measure.Measure, ps params.Parameters, md marketdata.ScenarioMarketData, refData refdata.ReferenceData) (map[measure.Measure]result.Result[any], error)
}

// Erase wraps f as an AnyFunction.
func Erase[T Resolver[R], R, V any](f *Function[T, R, V]) AnyFunction {
	return erased[T, R, V]{f: f}
}

type erased[T Resolver[R], R, V any] struct {
	f *Function[T, R, V]
}

func (e erased[T, R, V]) cast(target any) (T, error) {
	t, ok := target.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: unexpected target %T, want %T", e.f.TargetType(), target, zero)
	}
	return t, nil
}

func (e erased[T, R, V]) TargetType() string { return e.f.TargetType() }

func (e erased[T, R, V]) SupportedMeasures() []measure.Measure { return e.f.SupportedMeasures() }

func (e erased[T, R, V]) Accepts(target any) bool {
	_, ok := target.(T)
	return ok
}

func (e erased[T, R, V]) Identifier(target any) (string, bool) {
	t, err := e.cast(target)
	if err != nil {
		return "", false
	}
	return e.f.Identifier(t)
}

func (e erased[T, R, V]) NaturalCurrency(target any, refData refdata.ReferenceData) (currency.Currency, error) {
	t, err := e.cast(target)
	if err != nil {
		return "", err
	}
	return e.f.NaturalCurrency(t, refData)
}

func (e erased[T, R, V]) Requirements(target any, measures []measure.Measure, ps params.Parameters, refData refdata.ReferenceData) (marketdata.Requirements, error) {
	t, err := e.cast(target)
	if err != nil {
		return marketdata.Requirements{}, err
	}
	return e.f.Requirements(t, measures, ps, refData)
}

func (e erased[T, R, V]) Calculate(ctx context.Context, target any, measures []measure.Measure, ps params.Parameters, md marketdata.ScenarioMarketData, refData refdata.ReferenceData) (map[measure.Measure]result.Result[any], error) {
	t, err := e.cast(target)
	if err != nil {
		return nil, err
	}
	return e.f.Calculate(ctx, t, measures, ps, md, refData)
}

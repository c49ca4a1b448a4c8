package calculations

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rustyeddy/measures/calc"
)

// ErrUnknownTarget is returned when no function accepts a target.
var ErrUnknownTarget = errors.New("no calculation function for target")

// Registry holds calculation functions by target type name.
type Registry struct {
	byType map[string]calc.AnyFunction
}

func NewRegistry(fns ...calc.AnyFunction) (*Registry, error) {
	r := &Registry{byType: make(map[string]calc.AnyFunction, len(fns))}
	for _, f := range fns {
		if _, ok := r.byType[f.TargetType()]; ok {
			return nil, fmt.Errorf("registry: duplicate target type %s", f.TargetType())
		}
		r.byType[f.TargetType()] = f
	}
	return r, nil
}

// Standard registers every function in this package with opts applied.
func Standard(opts ...calc.Option) *Registry {
	r, err := NewRegistry(
		calc.Erase(BondFutureTrade.With(opts...)),
		calc.Erase(BondFuturePosition.With(opts...)),
		calc.Erase(TermDepositTrade.With(opts...)),
	)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(targetType string) (calc.AnyFunction, bool) {
	f, ok := r.byType[targetType]
	return f, ok
}

// For finds the function accepting target.
func (r *Registry) For(target any) (calc.AnyFunction, error) {
	for _, name := range r.TargetTypes() {
		if f := r.byType[name]; f.Accepts(target) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%T: %w", target, ErrUnknownTarget)
}

func (r *Registry) TargetTypes() []string {
	out := make([]string, 0, len(r.byType))
	for name := range r.byType {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

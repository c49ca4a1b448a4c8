package calc

import (
	"fmt"

	"github.com/rustyeddy/measures/measure"
)

// Calculation evaluates one measure against a resolved target R and a
// lookup view V. Scenario-aware calculations return a scenario.Array.
type Calculation[R, V any] func(env Env, resolved R, view V) (any, error)

// TableEntry binds a measure to its calculation.
type TableEntry[R, V any] struct {
	Measure     measure.Measure
	Calculation Calculation[R, V]
}

func Entry[R, V any](m measure.Measure, fn Calculation[R, V]) TableEntry[R, V] {
	return TableEntry[R, V]{Measure: m, Calculation: fn}
}

// ResolvedTargetEntry returns the resolved target itself.
func ResolvedTargetEntry[R, V any]() TableEntry[R, V] {
	return Entry(measure.ResolvedTarget, func(_ Env, resolved R, _ V) (any, error) {
		return resolved, nil
	})
}

// Table is the fixed dispatch table of one target type.
type Table[R, V any] struct {
	calcs    map[measure.Measure]Calculation[R, V]
	measures []measure.Measure
}

// NewTable builds a table. It is meant for package-level wiring and panics
// on a duplicate or nil entry.
func NewTable[R, V any](entries ...TableEntry[R, V]) Table[R, V] {
	t := Table[R, V]{calcs: make(map[measure.Measure]Calculation[R, V], len(entries))}
	for _, e := range entries {
		if e.Calculation == nil {
			panic(fmt.Sprintf("calc: nil calculation for %s", e.Measure))
		}
		if _, ok := t.calcs[e.Measure]; ok {
			panic(fmt.Sprintf("calc: duplicate calculation for %s", e.Measure))
		}
		t.calcs[e.Measure] = e.Calculation
		t.measures = append(t.measures, e.Measure)
	}
	measure.Sort(t.measures)
	return t
}

// Lookup returns the calculation for m; ok is false when there is none.
func (t Table[R, V]) Lookup(m measure.Measure) (Calculation[R, V], bool) {
	fn, ok := t.calcs[m]
	return fn, ok
}

// Measures returns the supported measures in name order.
func (t Table[R, V]) Measures() []measure.Measure {
	return append([]measure.Measure(nil), t.measures...)
}

func (t Table[R, V]) Supports(m measure.Measure) bool {
	_, ok := t.calcs[m]
	return ok
}

// Package scenario holds per-scenario calculation output.
package scenario

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/measures/currency"
)

// Array holds one value per scenario, in scenario order.
type Array[V any] struct {
	values []V
}

func ArrayOf[V any](values ...V) Array[V] {
	return Array[V]{values: append([]V(nil), values...)}
}

func (a Array[V]) Len() int { return len(a.values) }

func (a Array[V]) Get(i int) V { return a.values[i] }

func (a Array[V]) Values() []V {
	return append([]V(nil), a.values...)
}

func (a Array[V]) String() string {
	parts := make([]string, len(a.values))
	for i, v := range a.values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapArray converts each element.
func MapArray[V, W any](a Array[V], fn func(V) W) Array[W] {
	out := make([]W, len(a.values))
	for i, v := range a.values {
		out[i] = fn(v)
	}
	return Array[W]{values: out}
}

// AmountValues extracts the numeric part of each currency amount.
func AmountValues(a Array[currency.Amount]) []float64 {
	out := make([]float64, len(a.values))
	for i, v := range a.values {
		out[i] = v.Value
	}
	return out
}

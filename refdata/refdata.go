// Package refdata holds static reference data such as holiday calendars and
// the lookups that resolve targets against it.
package refdata

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an identifier has no reference data.
var ErrNotFound = errors.New("reference data not found")

// ID identifies one item of reference data.
type ID interface {
	ReferenceDataType() string
	String() string
}

// ReferenceData resolves identifiers to static values.
type ReferenceData interface {
	Lookup(id ID) (any, error)
	Contains(id ID) bool
}

// Get looks up id and asserts the value type.
func Get[T any](rd ReferenceData, id ID) (T, error) {
	var zero T
	if rd == nil {
		return zero, fmt.Errorf("%s %s: %w", id.ReferenceDataType(), id, ErrNotFound)
	}
	v, err := rd.Lookup(id)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s %s: unexpected type %T", id.ReferenceDataType(), id, v)
	}
	return t, nil
}

// Immutable is a map-backed ReferenceData. The standard holiday calendars
// are always available.
type Immutable struct {
	values map[ID]any
}

func New(values map[ID]any) *Immutable {
	m := make(map[ID]any, len(values)+len(standardCalendars))
	for id, cal := range standardCalendars {
		m[id] = cal
	}
	for k, v := range values {
		m[k] = v
	}
	return &Immutable{values: m}
}

// Standard returns reference data containing only the standard calendars.
func Standard() *Immutable {
	return New(nil)
}

func (r *Immutable) Lookup(id ID) (any, error) {
	v, ok := r.values[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", id.ReferenceDataType(), id, ErrNotFound)
	}
	return v, nil
}

func (r *Immutable) Contains(id ID) bool {
	_, ok := r.values[id]
	return ok
}

// With returns a copy with one more entry.
func (r *Immutable) With(id ID, v any) *Immutable {
	m := make(map[ID]any, len(r.values)+1)
	for k, val := range r.values {
		m[k] = val
	}
	m[id] = v
	return &Immutable{values: m}
}

func (r *Immutable) Size() int { return len(r.values) }

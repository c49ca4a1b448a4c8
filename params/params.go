// Package params holds calculation parameters keyed by their declared kind.
package params

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

var (
	ErrMissingParameter   = errors.New("missing calculation parameter")
	ErrDuplicateParameter = errors.New("duplicate calculation parameter")
)

// Parameter is one item of calculation configuration. QueryType is the kind
// it is stored and retrieved under, normally an interface type such as the
// lookup it satisfies.
type Parameter interface {
	QueryType() reflect.Type
}

// KindOf returns the kind used to retrieve values of type T.
func KindOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Parameters is an immutable bag holding at most one parameter per kind.
type Parameters struct {
	values map[reflect.Type]Parameter
}

// Empty returns a bag with no parameters.
func Empty() Parameters {
	return Parameters{}
}

// New builds a bag, failing if two parameters share a kind.
func New(ps ...Parameter) (Parameters, error) {
	out := Parameters{values: make(map[reflect.Type]Parameter, len(ps))}
	for _, p := range ps {
		if err := out.put(p); err != nil {
			return Parameters{}, err
		}
	}
	return out, nil
}

// MustNew is New for static wiring and tests.
func MustNew(ps ...Parameter) Parameters {
	out, err := New(ps...)
	if err != nil {
		panic(err)
	}
	return out
}

func (p *Parameters) put(v Parameter) error {
	if v == nil {
		return errors.New("nil calculation parameter")
	}
	kind := v.QueryType()
	if kind == nil {
		return fmt.Errorf("calculation parameter %T has no query type", v)
	}
	if !reflect.TypeOf(v).AssignableTo(kind) {
		return fmt.Errorf("calculation parameter %T is not a %s", v, kind)
	}
	if _, ok := p.values[kind]; ok {
		return fmt.Errorf("%s: %w", kind, ErrDuplicateParameter)
	}
	p.values[kind] = v
	return nil
}

// With returns a copy with v added.
func (p Parameters) With(v Parameter) (Parameters, error) {
	out := p.copy(1)
	if err := out.put(v); err != nil {
		return Parameters{}, err
	}
	return out, nil
}

// Combine merges two bags. A kind present in both is an error.
func (p Parameters) Combine(other Parameters) (Parameters, error) {
	out := p.copy(len(other.values))
	for _, kind := range other.sortedKinds() {
		if err := out.put(other.values[kind]); err != nil {
			return Parameters{}, err
		}
	}
	return out, nil
}

func (p Parameters) copy(extra int) Parameters {
	out := Parameters{values: make(map[reflect.Type]Parameter, len(p.values)+extra)}
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

func (p Parameters) Contains(kind reflect.Type) bool {
	_, ok := p.values[kind]
	return ok
}

func (p Parameters) Size() int { return len(p.values) }

func (p Parameters) sortedKinds() []reflect.Type {
	kinds := make([]reflect.Type, 0, len(p.values))
	for k := range p.values {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].String() < kinds[j].String() })
	return kinds
}

func (p Parameters) String() string {
	kinds := p.sortedKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return "Parameters[" + strings.Join(names, ", ") + "]"
}

// Get returns the parameter stored under kind T.
func Get[T any](p Parameters) (T, error) {
	var zero T
	kind := KindOf[T]()
	v, ok := p.values[kind]
	if !ok {
		return zero, fmt.Errorf("%s: %w", kind, ErrMissingParameter)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("parameter %T stored as %s", v, kind)
	}
	return t, nil
}

// GetOrDefault returns the parameter stored under kind T, or def.
func GetOrDefault[T any](p Parameters, def T) T {
	v, err := Get[T](p)
	if err != nil {
		return def
	}
	return v
}

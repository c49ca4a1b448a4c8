package marketdata

import (
	"sort"
	"strings"

	"github.com/rustyeddy/measures/currency"
)

// Requirements declares the market data a calculation needs before any
// scenario is loaded. The zero value is the empty set. Values are never
// mutated once built.
type Requirements struct {
	values     map[ID]struct{}
	currencies map[currency.Currency]struct{}
}

func EmptyRequirements() Requirements {
	return Requirements{}
}

func RequirementsOf(ids []ID, currencies []currency.Currency) Requirements {
	return NewRequirements().Values(ids...).OutputCurrencies(currencies...).Build()
}

// Combine returns the union of r and other.
func (r Requirements) Combine(other Requirements) Requirements {
	if other.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return other
	}
	b := NewRequirements()
	b.add(r)
	b.add(other)
	return b.Build()
}

// CombineAll folds all sets into one.
func CombineAll(reqs ...Requirements) Requirements {
	b := NewRequirements()
	for _, r := range reqs {
		b.add(r)
	}
	return b.Build()
}

// ValueIDs returns the required ids ordered by their string form.
func (r Requirements) ValueIDs() []ID {
	out := make([]ID, 0, len(r.values))
	for id := range r.values {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (r Requirements) OutputCurrencies() []currency.Currency {
	out := make([]currency.Currency, 0, len(r.currencies))
	for c := range r.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r Requirements) Contains(id ID) bool {
	_, ok := r.values[id]
	return ok
}

func (r Requirements) IsEmpty() bool {
	return len(r.values) == 0 && len(r.currencies) == 0
}

func (r Requirements) Equal(other Requirements) bool {
	if len(r.values) != len(other.values) || len(r.currencies) != len(other.currencies) {
		return false
	}
	for id := range r.values {
		if _, ok := other.values[id]; !ok {
			return false
		}
	}
	for c := range r.currencies {
		if _, ok := other.currencies[c]; !ok {
			return false
		}
	}
	return true
}

func (r Requirements) String() string {
	ids := r.ValueIDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	ccys := r.OutputCurrencies()
	cs := make([]string, len(ccys))
	for i, c := range ccys {
		cs[i] = c.String()
	}
	return "Requirements{values=[" + strings.Join(parts, ", ") + "], currencies=[" + strings.Join(cs, ", ") + "]}"
}

// RequirementsBuilder accumulates requirements. It is not safe for
// concurrent use.
type RequirementsBuilder struct {
	values     map[ID]struct{}
	currencies map[currency.Currency]struct{}
}

func NewRequirements() *RequirementsBuilder {
	return &RequirementsBuilder{
		values:     make(map[ID]struct{}),
		currencies: make(map[currency.Currency]struct{}),
	}
}

func (b *RequirementsBuilder) Values(ids ...ID) *RequirementsBuilder {
	for _, id := range ids {
		if id != nil {
			b.values[id] = struct{}{}
		}
	}
	return b
}

func (b *RequirementsBuilder) OutputCurrencies(ccys ...currency.Currency) *RequirementsBuilder {
	for _, c := range ccys {
		if c != "" {
			b.currencies[c] = struct{}{}
		}
	}
	return b
}

func (b *RequirementsBuilder) add(r Requirements) {
	for id := range r.values {
		b.values[id] = struct{}{}
	}
	for c := range r.currencies {
		b.currencies[c] = struct{}{}
	}
}

// Build snapshots the builder; later builder calls do not affect the result.
func (b *RequirementsBuilder) Build() Requirements {
	r := Requirements{}
	if len(b.values) > 0 {
		r.values = make(map[ID]struct{}, len(b.values))
		for id := range b.values {
			r.values[id] = struct{}{}
		}
	}
	if len(b.currencies) > 0 {
		r.currencies = make(map[currency.Currency]struct{}, len(b.currencies))
		for c := range b.currencies {
			r.currencies[c] = struct{}{}
		}
	}
	return r
}

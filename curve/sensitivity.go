package curve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/measures/currency"
	"gonum.org/v1/gonum/floats"
)

// Sensitivity holds one value per curve parameter.
type Sensitivity struct {
	CurveName string
	Currency  currency.Currency
	Labels    []string
	Values    []float64
}

func (s Sensitivity) Total() float64 {
	return floats.Sum(s.Values)
}

// Sensitivities is a set of curve sensitivities keyed by curve name and
// currency.
type Sensitivities struct {
	entries []Sensitivity
}

func SensitivitiesOf(entries ...Sensitivity) Sensitivities {
	var out Sensitivities
	for _, e := range entries {
		out = out.Combine(Sensitivities{entries: []Sensitivity{e}})
	}
	return out
}

// Combine adds other into a copy of s, summing entries for the same curve
// and currency.
func (s Sensitivities) Combine(other Sensitivities) Sensitivities {
	out := make([]Sensitivity, 0, len(s.entries)+len(other.entries))
	for _, e := range s.entries {
		out = append(out, copySensitivity(e))
	}
	for _, e := range other.entries {
		merged := false
		for i := range out {
			if out[i].CurveName == e.CurveName && out[i].Currency == e.Currency && len(out[i].Values) == len(e.Values) {
				floats.Add(out[i].Values, e.Values)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, copySensitivity(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CurveName != out[j].CurveName {
			return out[i].CurveName < out[j].CurveName
		}
		return out[i].Currency < out[j].Currency
	})
	return Sensitivities{entries: out}
}

func (s Sensitivities) MultipliedBy(f float64) Sensitivities {
	out := make([]Sensitivity, len(s.entries))
	for i, e := range s.entries {
		out[i] = copySensitivity(e)
		floats.Scale(f, out[i].Values)
	}
	return Sensitivities{entries: out}
}

func (s Sensitivities) Entries() []Sensitivity {
	out := make([]Sensitivity, len(s.entries))
	for i, e := range s.entries {
		out[i] = copySensitivity(e)
	}
	return out
}

func (s Sensitivities) Size() int { return len(s.entries) }

// Total sums every parameter, grouped by currency.
func (s Sensitivities) Total() currency.MultiAmount {
	m := currency.MultiAmountOf()
	for _, e := range s.entries {
		m = m.Plus(currency.AmountOf(e.Currency, e.Total()))
	}
	return m
}

func (s Sensitivities) String() string {
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = fmt.Sprintf("%s/%s:%v", e.CurveName, e.Currency, e.Values)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func copySensitivity(s Sensitivity) Sensitivity {
	s.Labels = append([]string(nil), s.Labels...)
	s.Values = append([]float64(nil), s.Values...)
	return s
}

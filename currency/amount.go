package currency

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an amount of money in a single currency.
type Amount struct {
	Currency Currency
	Value    float64
}

func AmountOf(c Currency, v float64) Amount {
	return Amount{Currency: c, Value: v}
}

func (a Amount) Plus(v float64) Amount {
	return Amount{Currency: a.Currency, Value: a.Value + v}
}

func (a Amount) MultipliedBy(f float64) Amount {
	return Amount{Currency: a.Currency, Value: a.Value * f}
}

func (a Amount) Negated() Amount {
	return Amount{Currency: a.Currency, Value: -a.Value}
}

// IsFinite reports whether the value is neither NaN nor infinite.
func (a Amount) IsFinite() bool {
	return !math.IsNaN(a.Value) && !math.IsInf(a.Value, 0)
}

// Decimal returns the value rounded to the currency's minor units.
// Non-finite values have no decimal form and yield zero.
func (a Amount) Decimal() decimal.Decimal {
	if !a.IsFinite() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(a.Value).Round(int32(a.Currency.MinorUnits()))
}

func (a Amount) String() string {
	if !a.IsFinite() {
		return a.Currency.String() + " " + strconv.FormatFloat(a.Value, 'g', -1, 64)
	}
	return a.Currency.String() + " " + a.Decimal().StringFixed(int32(a.Currency.MinorUnits()))
}

// MultiAmount holds at most one amount per currency.
type MultiAmount struct {
	amounts map[Currency]float64
}

func MultiAmountOf(amounts ...Amount) MultiAmount {
	m := MultiAmount{amounts: make(map[Currency]float64, len(amounts))}
	for _, a := range amounts {
		m.amounts[a.Currency] += a.Value
	}
	return m
}

// Plus returns a new MultiAmount with a added.
func (m MultiAmount) Plus(a Amount) MultiAmount {
	out := MultiAmount{amounts: make(map[Currency]float64, len(m.amounts)+1)}
	for c, v := range m.amounts {
		out.amounts[c] = v
	}
	out.amounts[a.Currency] += a.Value
	return out
}

func (m MultiAmount) Amount(c Currency) (Amount, bool) {
	v, ok := m.amounts[c]
	if !ok {
		return Amount{}, false
	}
	return Amount{Currency: c, Value: v}, true
}

func (m MultiAmount) Currencies() []Currency {
	out := make([]Currency, 0, len(m.amounts))
	for c := range m.amounts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m MultiAmount) Amounts() []Amount {
	cs := m.Currencies()
	out := make([]Amount, len(cs))
	for i, c := range cs {
		out[i] = Amount{Currency: c, Value: m.amounts[c]}
	}
	return out
}

func (m MultiAmount) Size() int { return len(m.amounts) }

func (m MultiAmount) String() string {
	parts := make([]string, 0, len(m.amounts))
	for _, a := range m.Amounts() {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

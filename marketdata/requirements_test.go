package marketdata

import (
	"testing"

	"github.com/rustyeddy/measures/currency"
	"github.com/stretchr/testify/assert"
)

func quote(v string) QuoteID {
	return QuoteIDOf(StandardIDOf("OG-Ticker", v), SettlementPrice)
}

func TestCombine_Union(t *testing.T) {
	t.Parallel()

	a := RequirementsOf([]ID{quote("A"), CurveIDOf("G", "USD-DSC")}, []currency.Currency{currency.USD})
	b := RequirementsOf([]ID{quote("B"), CurveIDOf("G", "USD-DSC")}, []currency.Currency{currency.EUR})

	got := a.Combine(b)
	assert.Len(t, got.ValueIDs(), 3)
	assert.Equal(t, []currency.Currency{currency.EUR, currency.USD}, got.OutputCurrencies())
	assert.True(t, got.Contains(quote("A")))
	assert.True(t, got.Contains(quote("B")))
}

func TestCombine_Laws(t *testing.T) {
	t.Parallel()

	a := RequirementsOf([]ID{quote("A")}, []currency.Currency{currency.USD})
	b := RequirementsOf([]ID{quote("B"), CurveIDOf("G", "X")}, nil)
	c := RequirementsOf(nil, []currency.Currency{currency.GBP, currency.USD})

	t.Run("associative", func(t *testing.T) {
		assert.True(t, a.Combine(b).Combine(c).Equal(a.Combine(b.Combine(c))))
	})
	t.Run("commutative", func(t *testing.T) {
		assert.True(t, a.Combine(b).Equal(b.Combine(a)))
	})
	t.Run("empty is identity", func(t *testing.T) {
		assert.True(t, a.Combine(EmptyRequirements()).Equal(a))
		assert.True(t, EmptyRequirements().Combine(a).Equal(a))
	})
	t.Run("idempotent", func(t *testing.T) {
		assert.True(t, a.Combine(a).Equal(a))
	})
	t.Run("combine all", func(t *testing.T) {
		assert.True(t, CombineAll(a, b, c).Equal(a.Combine(b).Combine(c)))
	})
}

func TestBuilder_SnapshotIsImmutable(t *testing.T) {
	t.Parallel()

	b := NewRequirements().Values(quote("A"))
	r := b.Build()
	b.Values(quote("B"))

	assert.Len(t, r.ValueIDs(), 1)
	assert.False(t, r.Contains(quote("B")))
}

func TestRequirements_StringIsDeterministic(t *testing.T) {
	t.Parallel()

	a := RequirementsOf([]ID{quote("B"), quote("A")}, []currency.Currency{currency.USD})
	b := RequirementsOf([]ID{quote("A"), quote("B")}, []currency.Currency{currency.USD})
	assert.Equal(t, a.String(), b.String())
	assert.Contains(t, a.String(), "QuoteId:OG-Ticker~A/SettlementPrice")
}

func TestEmptyRequirements(t *testing.T) {
	t.Parallel()

	var zero Requirements
	assert.True(t, zero.IsEmpty())
	assert.True(t, zero.Equal(EmptyRequirements()))
	assert.Empty(t, zero.ValueIDs())
}

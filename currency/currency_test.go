package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Currency
		wantErr bool
	}{
		{"upper", "USD", USD, false},
		{"lower", "eur", EUR, false},
		{"padded", " gbp ", GBP, false},
		{"unknown but valid", "SEK", Currency("SEK"), false},
		{"too short", "US", "", true},
		{"digits", "U5D", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountString_RoundsToMinorUnits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "USD 1234.57", AmountOf(USD, 1234.5678).String())
	assert.Equal(t, "JPY 1235", AmountOf(JPY, 1234.5678).String())
}

func TestAmount_NonFinite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    float64
		want string
	}{
		{"nan", math.NaN(), "USD NaN"},
		{"positive infinity", math.Inf(1), "USD +Inf"},
		{"negative infinity", math.Inf(-1), "USD -Inf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := AmountOf(USD, tt.v)
			assert.False(t, a.IsFinite())
			assert.Equal(t, tt.want, a.String())
			assert.True(t, a.Decimal().IsZero())
		})
	}
	assert.True(t, AmountOf(USD, 1).IsFinite())
}

func TestMultiAmount(t *testing.T) {
	t.Parallel()

	m := MultiAmountOf(AmountOf(USD, 10), AmountOf(EUR, 5), AmountOf(USD, 2.5))
	assert.Equal(t, 2, m.Size())
	assert.Equal(t, []Currency{EUR, USD}, m.Currencies())

	usd, ok := m.Amount(USD)
	require.True(t, ok)
	assert.InDelta(t, 12.5, usd.Value, 1e-12)

	m2 := m.Plus(AmountOf(GBP, 1))
	assert.Equal(t, 2, m.Size(), "Plus must not mutate the receiver")
	assert.Equal(t, 3, m2.Size())
}

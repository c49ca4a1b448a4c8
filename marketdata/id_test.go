package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStandardID(t *testing.T) {
	t.Parallel()

	id, err := ParseStandardID("Bloomberg~TYH4")
	require.NoError(t, err)
	assert.Equal(t, StandardIDOf("Bloomberg", "TYH4"), id)

	id, err = ParseStandardID("US-GOVT")
	require.NoError(t, err)
	assert.Equal(t, StandardIDOf(DefaultScheme, "US-GOVT"), id)

	for _, bad := range []string{"", "~X", "X~"} {
		_, err := ParseStandardID(bad)
		assert.Error(t, err, bad)
	}
}

func TestIDStrings(t *testing.T) {
	t.Parallel()

	q := QuoteIDOf(StandardIDOf("OG-Ticker", "TYH4"), "")
	assert.Equal(t, MarketValue, q.Field)
	assert.Equal(t, "Curve", CurveIDOf("Default", "USD-Disc").MarketDataType())
}

package portfolio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustyeddy/measures/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuoteRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		row     []string
		want    Quote
		wantErr bool
	}{
		{
			name: "single value defaults field",
			row:  []string{"GILT1", "", "101.5"},
			want: Quote{ID: marketdata.QuoteIDOf(marketdata.StandardIDOf("OG-Ticker", "GILT1"), marketdata.MarketValue), Values: []float64{101.5}},
		},
		{
			name: "scenario values with whitespace",
			row:  []string{" Ticker~TYM4 ", " SettlementPrice ", " 1.01 ", "1.02"},
			want: Quote{ID: marketdata.QuoteIDOf(marketdata.StandardIDOf("Ticker", "TYM4"), marketdata.SettlementPrice), Values: []float64{1.01, 1.02}},
		},
		{
			name:    "too few columns",
			row:     []string{"GILT1", "MarketValue"},
			wantErr: true,
		},
		{
			name:    "bad value",
			row:     []string{"GILT1", "", "abc"},
			wantErr: true,
		},
		{
			name:    "bad id",
			row:     []string{"~", "", "1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseQuoteRow(tt.row)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadQuotes(t *testing.T) {
	t.Parallel()

	in := "id,field,value\n\nGILT1,,100\n# comment\nTYM4,SettlementPrice,1.0,1.1\n"
	got, err := readQuotes(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "GILT1", got[0].ID.StandardID.Value)
	assert.Equal(t, []float64{1.0, 1.1}, got[1].Values)
}

func TestReadQuotesWithoutHeader(t *testing.T) {
	t.Parallel()

	got, err := readQuotes(strings.NewReader("GILT1,,100\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestReadQuotesReportsLine(t *testing.T) {
	t.Parallel()

	_, err := readQuotes(strings.NewReader("id,field,value\nGILT1,,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadQuotesCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "quotes.csv")
	require.NoError(t, os.WriteFile(path, []byte("GILT1,MarketValue,99.5\n"), 0o644))

	got, err := ReadQuotesCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []float64{99.5}, got[0].Values)

	_, err = ReadQuotesCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

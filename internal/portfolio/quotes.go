package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rustyeddy/measures/marketdata"
)

// Quote is one quote row: a value shared by every scenario, or one value
// per scenario.
type Quote struct {
	ID     marketdata.QuoteID
	Values []float64
}

// ReadQuotesCSV reads quote rows:
//
//	id,field,value[,value...]
//
// where id is a standard id ("Scheme~Value" or bare) and field is a quote
// field name, MarketValue when empty. A single header row ("id,...") is
// allowed and empty rows are skipped.
func ReadQuotesCSV(path string) ([]Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readQuotes(f)
}

func readQuotes(in io.Reader) ([]Quote, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.Comment = '#'

	var out []Quote
	sawFirst := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "id") {
				continue
			}
		}
		q, err := parseQuoteRow(row)
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("quotes line %d: %w", line, err)
		}
		out = append(out, q)
	}
}

func parseQuoteRow(row []string) (Quote, error) {
	if len(row) < 3 {
		return Quote{}, fmt.Errorf("want id,field,value, got %d columns", len(row))
	}
	id, err := marketdata.ParseStandardID(row[0])
	if err != nil {
		return Quote{}, err
	}
	vals := make([]float64, 0, len(row)-2)
	for _, s := range row[2:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Quote{}, fmt.Errorf("bad value %q: %w", s, err)
		}
		vals = append(vals, v)
	}
	field := marketdata.FieldName(strings.TrimSpace(row[1]))
	return Quote{ID: marketdata.QuoteIDOf(id, field), Values: vals}, nil
}

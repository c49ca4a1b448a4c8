// Package marketdata describes the market data a calculation needs and holds
// the scenario market data supplied to it.
package marketdata

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/measures/currency"
)

// ID identifies one market data value. Implementations must be comparable.
type ID interface {
	MarketDataType() string
	String() string
}

// FieldName names the field of a quote.
type FieldName string

const (
	MarketValue     FieldName = "MarketValue"
	SettlementPrice FieldName = "SettlementPrice"
)

// StandardID is a scheme/value pair such as "OG-Ticker~GILT1".
type StandardID struct {
	Scheme string
	Value  string
}

func StandardIDOf(scheme, value string) StandardID {
	return StandardID{Scheme: scheme, Value: value}
}

func (s StandardID) String() string { return s.Scheme + "~" + s.Value }

// DefaultScheme is used by ParseStandardID when s has no scheme.
const DefaultScheme = "OG-Ticker"

// ParseStandardID parses "Scheme~Value" or a bare value.
func ParseStandardID(s string) (StandardID, error) {
	scheme, value, ok := strings.Cut(strings.TrimSpace(s), "~")
	if !ok {
		scheme, value = DefaultScheme, scheme
	}
	if scheme == "" || value == "" {
		return StandardID{}, fmt.Errorf("invalid standard id %q", s)
	}
	return StandardID{Scheme: scheme, Value: value}, nil
}

// QuoteID identifies an observable quote.
type QuoteID struct {
	StandardID StandardID
	Field      FieldName
}

func QuoteIDOf(id StandardID, field FieldName) QuoteID {
	if field == "" {
		field = MarketValue
	}
	return QuoteID{StandardID: id, Field: field}
}

func (q QuoteID) MarketDataType() string { return "Quote" }

func (q QuoteID) String() string {
	return fmt.Sprintf("QuoteId:%s/%s", q.StandardID, q.Field)
}

// CurveID identifies a curve within a named curve group.
type CurveID struct {
	Group string
	Name  string
}

func CurveIDOf(group, name string) CurveID {
	return CurveID{Group: group, Name: name}
}

func (c CurveID) MarketDataType() string { return "Curve" }

func (c CurveID) String() string {
	return fmt.Sprintf("CurveId:%s/%s", c.Group, c.Name)
}

// FXRateID identifies the rate converting base into counter.
type FXRateID struct {
	Base    currency.Currency
	Counter currency.Currency
}

func (f FXRateID) MarketDataType() string { return "FxRate" }

func (f FXRateID) String() string {
	return fmt.Sprintf("FxRateId:%s/%s", f.Base, f.Counter)
}

package currency

import (
	"fmt"
	"strings"
)

// Currency is an ISO-4217 currency code such as "USD".
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CHF Currency = "CHF"
)

type Meta struct {
	Code       Currency
	MinorUnits int
	Name       string
}

var Currencies = map[Currency]Meta{
	USD: {Code: USD, MinorUnits: 2, Name: "US Dollar"},
	EUR: {Code: EUR, MinorUnits: 2, Name: "Euro"},
	GBP: {Code: GBP, MinorUnits: 2, Name: "Pound Sterling"},
	JPY: {Code: JPY, MinorUnits: 0, Name: "Yen"},
	CHF: {Code: CHF, MinorUnits: 2, Name: "Swiss Franc"},
}

// Parse normalizes a currency code. Codes outside the known table are
// accepted as long as they are three ASCII letters.
func Parse(s string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 3 {
		return "", fmt.Errorf("invalid currency code %q", s)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", fmt.Errorf("invalid currency code %q", s)
		}
	}
	return Currency(code), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Currency {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MinorUnits returns the number of decimal places, 2 for unknown codes.
func (c Currency) MinorUnits() int {
	if m, ok := Currencies[c]; ok {
		return m.MinorUnits
	}
	return 2
}

func (c Currency) String() string { return string(c) }

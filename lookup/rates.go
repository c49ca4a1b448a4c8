package lookup

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/dates"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/params"
)

// RatesLookup is the discounting-curve methodology: one discount curve per
// currency.
type RatesLookup interface {
	params.Parameter
	DiscountCurrencies() []currency.Currency
	DiscountCurveID(ccy currency.Currency) (marketdata.CurveID, error)
	Requirements(ccys ...currency.Currency) (marketdata.Requirements, error)
	MarketDataView(md marketdata.ScenarioMarketData) RatesScenarioView
}

// DefaultRatesLookup maps currencies to discount curve ids.
type DefaultRatesLookup struct {
	discountCurves map[currency.Currency]marketdata.CurveID
	dayCount       dates.DayCount
}

func NewRatesLookup(discountCurves map[currency.Currency]marketdata.CurveID) *DefaultRatesLookup {
	m := make(map[currency.Currency]marketdata.CurveID, len(discountCurves))
	for k, v := range discountCurves {
		m[k] = v
	}
	return &DefaultRatesLookup{discountCurves: m, dayCount: dates.Act365F}
}

// WithDayCount sets the day count used to measure curve time.
func (l *DefaultRatesLookup) WithDayCount(dc dates.DayCount) *DefaultRatesLookup {
	out := *l
	out.dayCount = dc
	return &out
}

func (l *DefaultRatesLookup) QueryType() reflect.Type {
	return params.KindOf[RatesLookup]()
}

func (l *DefaultRatesLookup) DiscountCurrencies() []currency.Currency {
	out := make([]currency.Currency, 0, len(l.discountCurves))
	for c := range l.discountCurves {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (l *DefaultRatesLookup) DiscountCurveID(ccy currency.Currency) (marketdata.CurveID, error) {
	id, ok := l.discountCurves[ccy]
	if !ok {
		return marketdata.CurveID{}, fmt.Errorf("discount curve for %s: %w", ccy, ErrNoMapping)
	}
	return id, nil
}

func (l *DefaultRatesLookup) Requirements(ccys ...currency.Currency) (marketdata.Requirements, error) {
	b := marketdata.NewRequirements()
	for _, c := range ccys {
		id, err := l.DiscountCurveID(c)
		if err != nil {
			return marketdata.Requirements{}, err
		}
		b.Values(id).OutputCurrencies(c)
	}
	return b.Build(), nil
}

func (l *DefaultRatesLookup) MarketDataView(md marketdata.ScenarioMarketData) RatesScenarioView {
	return RatesScenarioView{lookup: l, md: md}
}

// RatesScenarioView is the scenario-indexed view of a RatesLookup.
type RatesScenarioView struct {
	lookup RatesLookup
	md     marketdata.ScenarioMarketData
}

func (v RatesScenarioView) Lookup() RatesLookup { return v.lookup }

func (v RatesScenarioView) ScenarioCount() int { return v.md.ScenarioCount() }

func (v RatesScenarioView) ValuationDate(i int) time.Time { return v.md.ValuationDate(i) }

func (v RatesScenarioView) MarketData() marketdata.ScenarioMarketData { return v.md }

func (v RatesScenarioView) Scenario(i int) RatesProvider {
	dc := dates.Act365F
	if d, ok := v.lookup.(*DefaultRatesLookup); ok {
		dc = d.dayCount
	}
	return RatesProvider{lookup: v.lookup, dayCount: dc, source: curveSource{md: v.md.Scenario(i)}}
}

var _ CurveProvider[RatesProvider] = RatesProvider{}

// RatesProvider supplies discount factors for one scenario.
type RatesProvider struct {
	lookup   RatesLookup
	dayCount dates.DayCount
	source   curveSource
}

func (p RatesProvider) ValuationDate() time.Time { return p.source.md.ValuationDate() }

func (p RatesProvider) DiscountFactors(ccy currency.Currency) (curve.DiscountFactors, error) {
	id, err := p.lookup.DiscountCurveID(ccy)
	if err != nil {
		return curve.DiscountFactors{}, err
	}
	c, err := p.source.curve(id)
	if err != nil {
		return curve.DiscountFactors{}, err
	}
	return curve.DiscountFactors{
		Currency:      ccy,
		ValuationDate: p.ValuationDate(),
		DayCount:      p.dayCount,
		Curve:         c,
	}, nil
}

// CurveIDs lists the curves used to discount ccys.
func (p RatesProvider) CurveIDs(ccys ...currency.Currency) ([]marketdata.CurveID, error) {
	out := make([]marketdata.CurveID, 0, len(ccys))
	for _, c := range ccys {
		id, err := p.lookup.DiscountCurveID(c)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (p RatesProvider) Curve(id marketdata.CurveID) (*curve.Curve, error) {
	return p.source.curve(id)
}

// WithCurve returns a copy reading c in place of curve id.
func (p RatesProvider) WithCurve(id marketdata.CurveID, c *curve.Curve) RatesProvider {
	p.source = p.source.with(id, c)
	return p
}

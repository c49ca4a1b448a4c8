package pricer

import (
	"testing"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/dates"
	"github.com/rustyeddy/measures/lookup"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/product"
	"github.com/rustyeddy/measures/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	valDate   = dates.MustDate("2024-01-02")
	repoCurve = marketdata.CurveIDOf("Default", "USD-Repo")
	govCurve  = marketdata.CurveIDOf("Default", "USD-Gov")
	discCurve = marketdata.CurveIDOf("Default", "USD-Disc")
	issuer    = marketdata.StandardIDOf("OG-Ticker", "US-GOVT")
	futureID  = marketdata.StandardIDOf("OG-Ticker", "TYH4")
)

func testBond(ticker string, rate float64) product.FixedCouponBond {
	return product.FixedCouponBond{
		SecurityID:    marketdata.StandardIDOf("OG-Ticker", ticker),
		LegalEntityID: issuer,
		Currency:      currency.USD,
		Notional:      1,
		FixedRate:     rate,
		StartDate:     dates.MustDate("2023-02-15"),
		EndDate:       dates.MustDate("2033-02-15"),
		Frequency:     dates.SemiAnnual,
		DayCount:      dates.Thirty360,
	}
}

func resolvedTrade(t *testing.T, tradeDate string, qty, price float64) product.ResolvedBondFutureTrade {
	t.Helper()
	rt, err := product.BondFutureTrade{
		Info: product.Info{ID: "T1", TradeDate: dates.MustDate(tradeDate)},
		Product: product.BondFuture{
			SecurityID:        futureID,
			Currency:          currency.USD,
			Notional:          100000,
			DeliveryBasket:    []product.FixedCouponBond{testBond("UST-A", 0.04), testBond("UST-B", 0.04)},
			ConversionFactors: []float64{0.9, 0.95},
			LastTradeDate:     dates.MustDate("2024-03-20"),
			FirstNoticeDate:   dates.MustDate("2024-03-01"),
			LastNoticeDate:    dates.MustDate("2024-03-28"),
		},
		Quantity: qty,
		Price:    price,
	}.Resolve(refdata.Standard())
	require.NoError(t, err)
	return rt
}

func legalEntityProvider(t *testing.T, repoRate, govRate, settlement float64) lookup.LegalEntityProvider {
	t.Helper()
	l := lookup.NewLegalEntityLookup(lookup.LegalEntityMappings{
		RepoIssuerGroups: map[marketdata.StandardID]lookup.RepoGroup{issuer: "GOVT"},
		RepoCurves:       map[lookup.RepoGroup]map[currency.Currency]marketdata.CurveID{"GOVT": {currency.USD: repoCurve}},
		IssuerGroups:     map[marketdata.StandardID]lookup.LegalEntityGroup{issuer: "GOVT"},
		IssuerCurves:     map[lookup.LegalEntityGroup]map[currency.Currency]marketdata.CurveID{"GOVT": {currency.USD: govCurve}},
	})
	md, err := marketdata.NewBuilder(valDate).
		Value(repoCurve, curve.Flat("USD-Repo", repoRate)).
		Value(govCurve, curve.Flat("USD-Gov", govRate)).
		Value(marketdata.QuoteIDOf(futureID, marketdata.SettlementPrice), settlement).
		Build()
	require.NoError(t, err)
	return l.MarketDataView(md).Scenario(0)
}

func TestBondPricer_ZeroRates(t *testing.T) {
	t.Parallel()

	rb, err := testBond("UST-A", 0.04).Resolve(refdata.Standard())
	require.NoError(t, err)

	zero := curve.DiscountFactors{Currency: currency.USD, ValuationDate: valDate, DayCount: dates.Act365F, Curve: curve.Flat("zero", 0)}
	settle := dates.MustDate("2024-03-01")

	var p BondPricer
	assert.InDelta(t, 1.36, p.DirtyPrice(rb, zero, zero, settle), 1e-12)
	assert.InDelta(t, 0.04*16.0/360, p.AccruedInterest(rb, settle), 1e-12)
	assert.InDelta(t, 1.36-0.04*16.0/360, p.CleanPrice(rb, zero, zero, settle), 1e-12)
}

func TestBondFuturePricer_CheapestToDeliver(t *testing.T) {
	t.Parallel()

	rt := resolvedTrade(t, "2024-01-02", 1, 1.4)
	lp := legalEntityProvider(t, 0, 0, 1.4)

	var p BondFuturePricer
	price, err := p.Price(rt.Product, lp)
	require.NoError(t, err)
	assert.InDelta(t, (1.36-0.04*16.0/360)/0.95, price, 1e-12)
}

func TestReferencePrice(t *testing.T) {
	t.Parallel()

	lp := legalEntityProvider(t, 0.01, 0.02, 1.25)

	onTradeDate := resolvedTrade(t, "2024-01-02", 1, 1.3)
	ref, err := ReferencePrice(onTradeDate, valDate, lp.MarketData())
	require.NoError(t, err)
	assert.Equal(t, 1.3, ref)

	older := resolvedTrade(t, "2023-12-28", 1, 1.3)
	ref, err = ReferencePrice(older, valDate, lp.MarketData())
	require.NoError(t, err)
	assert.Equal(t, 1.25, ref)

	position := older
	position.TradedPrice = nil
	ref, err = ReferencePrice(position, valDate, lp.MarketData())
	require.NoError(t, err)
	assert.Equal(t, 1.25, ref)

	empty, err := marketdata.NewBuilder(valDate).Build()
	require.NoError(t, err)
	_, err = ReferencePrice(older, valDate, empty.Scenario(0))
	assert.ErrorIs(t, err, marketdata.ErrMissingValue)
}

func TestBondFuturePricer_PresentValue(t *testing.T) {
	t.Parallel()

	rt := resolvedTrade(t, "2023-12-28", 3, 1.3)
	lp := legalEntityProvider(t, 0.01, 0.02, 1.25)

	var p BondFuturePricer
	price, err := p.Price(rt.Product, lp)
	require.NoError(t, err)

	pv, err := p.PresentValue(rt, lp)
	require.NoError(t, err)
	assert.Equal(t, currency.USD, pv.Currency)
	assert.InDelta(t, (price-1.25)*100000*3, pv.Value, 1e-6)

	spread, err := p.ParSpread(rt, lp)
	require.NoError(t, err)
	assert.InDelta(t, price-1.25, spread, 1e-12)
}

func TestBondFuturePricer_CurveIDs(t *testing.T) {
	t.Parallel()

	rt := resolvedTrade(t, "2024-01-02", 1, 1.3)
	ids, err := BondFuturePricer{}.CurveIDs(rt.Product, legalEntityProvider(t, 0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, []marketdata.CurveID{repoCurve, govCurve}, ids)
}

func testDeposit(t *testing.T, rate float64) product.ResolvedTermDeposit {
	t.Helper()
	d, err := product.TermDeposit{
		Currency:  currency.USD,
		Notional:  1_000_000,
		Rate:      rate,
		StartDate: dates.MustDate("2024-01-08"),
		EndDate:   dates.MustDate("2024-07-08"),
		DayCount:  dates.Act360,
	}.Resolve(refdata.Standard())
	require.NoError(t, err)
	return d
}

func TestTermDepositPricer(t *testing.T) {
	t.Parallel()

	var p TermDepositPricer
	zero := curve.DiscountFactors{Currency: currency.USD, ValuationDate: valDate, DayCount: dates.Act365F, Curve: curve.Flat("zero", 0)}
	d := testDeposit(t, 0.05)
	assert.InDelta(t, d.Interest(), p.PresentValue(d, zero).Value, 1e-6)

	spread, err := p.ParSpread(d, zero)
	require.NoError(t, err)
	assert.InDelta(t, -0.05, spread, 1e-12)

	five := zero.WithCurve(curve.Flat("five", 0.05))
	par, err := p.ParRate(d, five)
	require.NoError(t, err)
	assert.InDelta(t, 0, p.PresentValue(testDeposit(t, par), five).Value, 1e-6)

	matured := five
	matured.ValuationDate = dates.MustDate("2025-01-01")
	assert.Zero(t, p.PresentValue(d, matured).Value)
}

func TestPV01(t *testing.T) {
	t.Parallel()

	c, err := curve.New("USD-Disc", []curve.Node{
		{Label: "3M", Time: 0.25, ZeroRate: 0.04},
		{Label: "1Y", Time: 1, ZeroRate: 0.045},
	})
	require.NoError(t, err)
	md, err := marketdata.NewBuilder(valDate).Value(discCurve, c).Build()
	require.NoError(t, err)
	rp := lookup.NewRatesLookup(map[currency.Currency]marketdata.CurveID{currency.USD: discCurve}).MarketDataView(md).Scenario(0)

	d := testDeposit(t, 0.05)
	pv := func(p lookup.RatesProvider) (float64, error) {
		df, err := p.DiscountFactors(currency.USD)
		if err != nil {
			return 0, err
		}
		return TermDepositPricer{}.PresentValue(d, df).Value, nil
	}

	bucketed, err := BucketedPV01(rp, []marketdata.CurveID{discCurve}, currency.USD, pv)
	require.NoError(t, err)
	require.Equal(t, 1, bucketed.Size())
	entry := bucketed.Entries()[0]
	assert.Equal(t, []string{"3M", "1Y"}, entry.Labels)

	total, err := PV01(rp, []marketdata.CurveID{discCurve}, currency.USD, pv)
	require.NoError(t, err)
	amt, ok := total.Amount(currency.USD)
	require.True(t, ok)
	assert.InDelta(t, entry.Total(), amt.Value, 1e-9)
	assert.Less(t, amt.Value, 0.0)
}

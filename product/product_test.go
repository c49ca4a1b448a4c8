package product

import (
	"testing"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/dates"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBond(ticker string) FixedCouponBond {
	return FixedCouponBond{
		SecurityID:    marketdata.StandardIDOf("OG-Ticker", ticker),
		LegalEntityID: marketdata.StandardIDOf("OG-Ticker", "US-GOVT"),
		Currency:      currency.USD,
		Notional:      1,
		FixedRate:     0.04,
		StartDate:     dates.MustDate("2023-02-15"),
		EndDate:       dates.MustDate("2033-02-15"),
		Frequency:     dates.SemiAnnual,
		DayCount:      dates.Thirty360,
		Calendar:      refdata.Weekends,
		Convention:    refdata.Following,
	}
}

func testFuture() BondFuture {
	return BondFuture{
		SecurityID:        marketdata.StandardIDOf("OG-Ticker", "TYH4"),
		Currency:          currency.USD,
		Notional:          100000,
		DeliveryBasket:    []FixedCouponBond{testBond("UST-A"), testBond("UST-B")},
		ConversionFactors: []float64{0.9, 0.95},
		LastTradeDate:     dates.MustDate("2024-03-20"),
		FirstNoticeDate:   dates.MustDate("2024-03-01"),
		LastNoticeDate:    dates.MustDate("2024-03-28"),
		Calendar:          refdata.Weekends,
	}
}

func TestFixedCouponBond_Resolve(t *testing.T) {
	t.Parallel()

	rb, err := testBond("UST-A").Resolve(refdata.Standard())
	require.NoError(t, err)
	require.Len(t, rb.Periods, 20)

	first := rb.Periods[0]
	assert.Equal(t, dates.MustDate("2023-02-15"), first.Start)
	assert.Equal(t, dates.MustDate("2023-08-15"), first.End)
	assert.InDelta(t, 0.5, first.YearFraction, 1e-12)

	// 2025-02-15 is a Saturday
	assert.Equal(t, dates.MustDate("2025-02-17"), rb.Periods[3].PaymentDate)
	assert.Equal(t, dates.MustDate("2033-02-15"), rb.MaturityDate())
}

func TestFixedCouponBond_StubAtStart(t *testing.T) {
	t.Parallel()

	b := testBond("UST-A")
	b.StartDate = dates.MustDate("2023-05-15")
	rb, err := b.Resolve(refdata.Standard())
	require.NoError(t, err)
	assert.Equal(t, dates.MustDate("2023-05-15"), rb.Periods[0].Start)
	assert.Equal(t, dates.MustDate("2023-08-15"), rb.Periods[0].End)
	assert.InDelta(t, 0.25, rb.Periods[0].YearFraction, 1e-12)
}

func TestFixedCouponBond_AccruedYearFraction(t *testing.T) {
	t.Parallel()

	rb, err := testBond("UST-A").Resolve(refdata.Standard())
	require.NoError(t, err)
	assert.InDelta(t, 0.25, rb.AccruedYearFraction(dates.MustDate("2023-05-15")), 1e-12)
	assert.Zero(t, rb.AccruedYearFraction(dates.MustDate("2040-01-01")))
}

func TestFixedCouponBond_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		edit func(*FixedCouponBond)
	}{
		{"no id", func(b *FixedCouponBond) { b.SecurityID = marketdata.StandardID{} }},
		{"no currency", func(b *FixedCouponBond) { b.Currency = "" }},
		{"zero notional", func(b *FixedCouponBond) { b.Notional = 0 }},
		{"inverted dates", func(b *FixedCouponBond) { b.EndDate = b.StartDate }},
		{"no frequency", func(b *FixedCouponBond) { b.Frequency = 0 }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := testBond("UST-A")
			tt.edit(&b)
			_, err := b.Resolve(refdata.Standard())
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
}

func TestResolve_UnknownCalendar(t *testing.T) {
	t.Parallel()

	f := testFuture()
	f.Calendar = "GBLO"
	_, err := BondFutureTrade{Info: Info{TradeDate: dates.MustDate("2024-01-02")}, Product: f, Quantity: 1}.Resolve(refdata.Standard())
	assert.ErrorIs(t, err, refdata.ErrNotFound)
}

func TestBondFuture_Resolve(t *testing.T) {
	t.Parallel()

	rf, err := testFuture().Resolve(refdata.Standard())
	require.NoError(t, err)
	assert.Len(t, rf.DeliveryBasket, 2)
	assert.Equal(t, dates.MustDate("2024-03-01"), rf.FirstDeliveryDate)
	assert.Equal(t, dates.MustDate("2024-03-28"), rf.LastDeliveryDate)
	assert.Equal(t, testFuture().SettlementPriceID(), rf.SettlementPriceID())
}

func TestBondFuture_Invalid(t *testing.T) {
	t.Parallel()

	f := testFuture()
	f.ConversionFactors = f.ConversionFactors[:1]
	_, err := f.Resolve(refdata.Standard())
	assert.ErrorIs(t, err, ErrInvalidProduct)

	f = testFuture()
	f.DeliveryBasket[1].Currency = currency.EUR
	_, err = f.Resolve(refdata.Standard())
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestBondFutureTradeAndPosition(t *testing.T) {
	t.Parallel()

	info := Info{ID: "T1", TradeDate: dates.MustDate("2024-01-02")}
	rt, err := BondFutureTrade{Info: info, Product: testFuture(), Quantity: 10, Price: 1.1}.Resolve(refdata.Standard())
	require.NoError(t, err)
	require.NotNil(t, rt.TradedPrice)
	assert.Equal(t, 1.1, rt.TradedPrice.Price)
	assert.Equal(t, 10.0, rt.Quantity)

	rp, err := BondFuturePosition{Info: info, Product: testFuture(), LongQuantity: 10, ShortQuantity: 3}.Resolve(refdata.Standard())
	require.NoError(t, err)
	assert.Nil(t, rp.TradedPrice)
	assert.Equal(t, 7.0, rp.Quantity)

	_, err = BondFutureTrade{Product: testFuture(), Quantity: 1}.Resolve(refdata.Standard())
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestTermDepositTrade_Resolve(t *testing.T) {
	t.Parallel()

	td := TermDepositTrade{Product: TermDeposit{
		Currency:   currency.USD,
		Notional:   1_000_000,
		Rate:       0.05,
		StartDate:  dates.MustDate("2024-01-06"), // Saturday
		EndDate:    dates.MustDate("2024-07-08"),
		DayCount:   dates.Act360,
		Calendar:   refdata.Weekends,
		Convention: refdata.Following,
	}}
	rt, err := td.Resolve(refdata.Standard())
	require.NoError(t, err)
	assert.Equal(t, dates.MustDate("2024-01-08"), rt.Product.StartDate)
	assert.InDelta(t, 182.0/360, rt.Product.YearFraction, 1e-12)
	assert.InDelta(t, 1_000_000*0.05*182.0/360, rt.Product.Interest(), 1e-6)
}

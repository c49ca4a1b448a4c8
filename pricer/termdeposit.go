package pricer

import (
	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/product"
	"github.com/rustyeddy/measures/result"
)

type TermDepositPricer struct{}

// PresentValue discounts the end payment and, while not yet started, the
// initial exchange.
func (TermDepositPricer) PresentValue(d product.ResolvedTermDeposit, df curve.DiscountFactors) currency.Amount {
	if df.ValuationDate.After(d.EndDate) {
		return currency.AmountOf(d.Currency, 0)
	}
	pv := (d.Notional + d.Interest()) * df.DiscountFactor(d.EndDate)
	if !df.ValuationDate.After(d.StartDate) {
		pv -= d.Notional * df.DiscountFactor(d.StartDate)
	}
	return currency.AmountOf(d.Currency, pv)
}

// ParRate is the rate giving a zero present value.
func (TermDepositPricer) ParRate(d product.ResolvedTermDeposit, df curve.DiscountFactors) (float64, error) {
	if d.YearFraction <= 0 {
		return 0, result.NewFailure(result.InvalidInput, "term deposit has no accrual period")
	}
	return (df.DiscountFactor(d.StartDate)/df.DiscountFactor(d.EndDate) - 1) / d.YearFraction, nil
}

func (p TermDepositPricer) ParSpread(d product.ResolvedTermDeposit, df curve.DiscountFactors) (float64, error) {
	r, err := p.ParRate(d, df)
	if err != nil {
		return 0, err
	}
	return r - d.Rate, nil
}

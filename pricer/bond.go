// Package pricer holds the reference pricers used by the calculation
// functions.
package pricer

import (
	"time"

	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/product"
)

// BondPricer prices fixed coupon bonds from issuer and repo curves.
type BondPricer struct{}

// DirtyPrice is the price per unit notional for settlement on settle. Cash
// flows are discounted on the issuer curve and forwarded to settle on the
// repo curve.
func (BondPricer) DirtyPrice(b product.ResolvedFixedCouponBond, issuer, repo curve.DiscountFactors, settle time.Time) float64 {
	pv := 0.0
	for _, p := range b.Periods {
		if !p.PaymentDate.After(settle) {
			continue
		}
		pv += b.FixedRate * p.YearFraction * issuer.DiscountFactor(p.PaymentDate)
	}
	if b.MaturityDate().After(settle) {
		pv += issuer.DiscountFactor(b.MaturityDate())
	}
	return pv / repo.DiscountFactor(settle)
}

func (BondPricer) AccruedInterest(b product.ResolvedFixedCouponBond, settle time.Time) float64 {
	return b.FixedRate * b.AccruedYearFraction(settle)
}

func (p BondPricer) CleanPrice(b product.ResolvedFixedCouponBond, issuer, repo curve.DiscountFactors, settle time.Time) float64 {
	return p.DirtyPrice(b, issuer, repo, settle) - p.AccruedInterest(b, settle)
}

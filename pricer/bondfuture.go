package pricer

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/lookup"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/product"
	"github.com/rustyeddy/measures/result"
)

// BondFuturePricer prices bond futures as the cheapest to deliver over the
// basket. Prices are in decimal form, 1.0 is par.
type BondFuturePricer struct {
	Bond BondPricer
}

// Price is the minimum over the basket of clean price divided by
// conversion factor, for delivery on the first delivery date.
func (p BondFuturePricer) Price(f product.ResolvedBondFuture, lp lookup.LegalEntityProvider) (float64, error) {
	settle := f.FirstDeliveryDate
	price := math.Inf(1)
	for i, b := range f.DeliveryBasket {
		issuer, err := lp.IssuerDiscountFactors(b.LegalEntityID, b.Currency)
		if err != nil {
			return 0, err
		}
		repo, err := lp.RepoDiscountFactors(b.SecurityID, b.LegalEntityID, b.Currency)
		if err != nil {
			return 0, err
		}
		price = math.Min(price, p.Bond.CleanPrice(b, issuer, repo, settle)/f.ConversionFactors[i])
	}
	return price, nil
}

// ReferencePrice is the trade price on the trade date and the last
// settlement price afterwards.
func ReferencePrice(t product.ResolvedBondFutureTrade, valuationDate time.Time, md marketdata.MarketData) (float64, error) {
	if t.TradedPrice != nil && !t.TradedPrice.TradeDate.Before(valuationDate) {
		return t.TradedPrice.Price, nil
	}
	px, err := marketdata.Get[float64](md, t.Product.SettlementPriceID())
	if err != nil {
		return 0, fmt.Errorf("settlement price: %w", err)
	}
	return px, nil
}

// PresentValue is (price - reference) times notional times quantity. It is
// a margin amount and is not discounted.
func (p BondFuturePricer) PresentValue(t product.ResolvedBondFutureTrade, lp lookup.LegalEntityProvider) (currency.Amount, error) {
	if lp.ValuationDate().After(t.Product.LastTradeDate) {
		return currency.Amount{}, result.NewFailure(result.InvalidInput,
			"bond future %s expired on %s", t.Product.SecurityID, t.Product.LastTradeDate.Format("2006-01-02"))
	}
	price, err := p.Price(t.Product, lp)
	if err != nil {
		return currency.Amount{}, err
	}
	ref, err := ReferencePrice(t, lp.ValuationDate(), lp.MarketData())
	if err != nil {
		return currency.Amount{}, err
	}
	return currency.AmountOf(t.Product.Currency, (price-ref)*t.Product.Notional*t.Quantity), nil
}

// ParSpread is the price minus the reference price.
func (p BondFuturePricer) ParSpread(t product.ResolvedBondFutureTrade, lp lookup.LegalEntityProvider) (float64, error) {
	price, err := p.Price(t.Product, lp)
	if err != nil {
		return 0, err
	}
	ref, err := ReferencePrice(t, lp.ValuationDate(), lp.MarketData())
	if err != nil {
		return 0, err
	}
	return price - ref, nil
}

// CurveIDs lists every repo and issuer curve used by the basket, without
// duplicates.
func (p BondFuturePricer) CurveIDs(f product.ResolvedBondFuture, lp lookup.LegalEntityProvider) ([]marketdata.CurveID, error) {
	seen := make(map[marketdata.CurveID]struct{})
	var out []marketdata.CurveID
	for _, b := range f.DeliveryBasket {
		ids, err := lp.CurveIDs(b.SecurityID, b.LegalEntityID, b.Currency)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

// Package calculations wires the products and pricers into calculation
// functions, one per target type.
package calculations

import (
	"github.com/rustyeddy/measures/calc"
	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/lookup"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/measure"
	"github.com/rustyeddy/measures/params"
	"github.com/rustyeddy/measures/pricer"
	"github.com/rustyeddy/measures/product"
	"github.com/rustyeddy/measures/refdata"
)

type bondFutureView = lookup.LegalEntityScenarioView

var bondFuturePricer = pricer.BondFuturePricer{}

// bondFutureTable is shared by trades and positions, both resolve to a
// ResolvedBondFutureTrade.
var bondFutureTable = calc.NewTable(
	calc.Entry(measure.PresentValue, bondFuturePresentValue),
	calc.Entry(measure.PV01CalibratedSum, bondFuturePV01Sum),
	calc.Entry(measure.PV01CalibratedBucketed, bondFuturePV01Bucketed),
	calc.Entry(measure.UnitPrice, bondFutureUnitPrice),
	calc.Entry(measure.ParSpread, bondFutureParSpread),
	calc.Entry(measure.CurrencyExposure, bondFutureCurrencyExposure),
	calc.ResolvedTargetEntry[product.ResolvedBondFutureTrade, bondFutureView](),
)

// BondFutureTrade calculates measures for bond future trades.
var BondFutureTrade = calc.NewFunction(calc.Spec[product.BondFutureTrade, product.ResolvedBondFutureTrade, bondFutureView]{
	TargetType: "BondFutureTrade",
	Table:      bondFutureTable,
	Identifier: func(t product.BondFutureTrade) (string, bool) { return t.Info.ID, t.Info.HasID() },
	NaturalCurrency: func(t product.BondFutureTrade, _ refdata.ReferenceData) (currency.Currency, error) {
		return t.Product.Currency, nil
	},
	Requirements: func(t product.BondFutureTrade, _ []measure.Measure, ps params.Parameters, _ refdata.ReferenceData) (marketdata.Requirements, error) {
		return bondFutureRequirements(t.Product, ps)
	},
	View: legalEntityView,
})

// BondFuturePosition calculates measures for bond future positions.
var BondFuturePosition = calc.NewFunction(calc.Spec[product.BondFuturePosition, product.ResolvedBondFutureTrade, bondFutureView]{
	TargetType: "BondFuturePosition",
	Table:      bondFutureTable,
	Identifier: func(p product.BondFuturePosition) (string, bool) { return p.Info.ID, p.Info.HasID() },
	NaturalCurrency: func(p product.BondFuturePosition, _ refdata.ReferenceData) (currency.Currency, error) {
		return p.Product.Currency, nil
	},
	Requirements: func(p product.BondFuturePosition, _ []measure.Measure, ps params.Parameters, _ refdata.ReferenceData) (marketdata.Requirements, error) {
		return bondFutureRequirements(p.Product, ps)
	},
	View: legalEntityView,
})

// bondFutureRequirements is the settlement price quote and the output
// currency, plus the repo and issuer curves of every deliverable bond.
func bondFutureRequirements(f product.BondFuture, ps params.Parameters) (marketdata.Requirements, error) {
	l, err := params.Get[lookup.LegalEntityLookup](ps)
	if err != nil {
		return marketdata.Requirements{}, err
	}
	b := marketdata.NewRequirements().
		Values(f.SettlementPriceID()).
		OutputCurrencies(f.Currency)
	reqs := []marketdata.Requirements{b.Build()}
	for _, bond := range f.DeliveryBasket {
		r, err := l.Requirements(bond.SecurityID, bond.LegalEntityID, bond.Currency)
		if err != nil {
			return marketdata.Requirements{}, err
		}
		reqs = append(reqs, r)
	}
	return marketdata.CombineAll(reqs...), nil
}

func legalEntityView(ps params.Parameters, md marketdata.ScenarioMarketData) (bondFutureView, error) {
	l, err := params.Get[lookup.LegalEntityLookup](ps)
	if err != nil {
		return bondFutureView{}, err
	}
	return l.MarketDataView(md), nil
}

func bondFuturePresentValue(env calc.Env, t product.ResolvedBondFutureTrade, v bondFutureView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (currency.Amount, error) {
		return bondFuturePricer.PresentValue(t, v.Scenario(i))
	})
}

func bondFuturePV(t product.ResolvedBondFutureTrade) func(lookup.LegalEntityProvider) (float64, error) {
	return func(p lookup.LegalEntityProvider) (float64, error) {
		pv, err := bondFuturePricer.PresentValue(t, p)
		return pv.Value, err
	}
}

func bondFuturePV01Sum(env calc.Env, t product.ResolvedBondFutureTrade, v bondFutureView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (currency.MultiAmount, error) {
		p := v.Scenario(i)
		ids, err := bondFuturePricer.CurveIDs(t.Product, p)
		if err != nil {
			return currency.MultiAmount{}, err
		}
		return pricer.PV01(p, ids, t.Product.Currency, bondFuturePV(t))
	})
}

func bondFuturePV01Bucketed(env calc.Env, t product.ResolvedBondFutureTrade, v bondFutureView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (curve.Sensitivities, error) {
		p := v.Scenario(i)
		ids, err := bondFuturePricer.CurveIDs(t.Product, p)
		if err != nil {
			return curve.Sensitivities{}, err
		}
		return pricer.BucketedPV01(p, ids, t.Product.Currency, bondFuturePV(t))
	})
}

func bondFutureUnitPrice(env calc.Env, t product.ResolvedBondFutureTrade, v bondFutureView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (float64, error) {
		return bondFuturePricer.Price(t.Product, v.Scenario(i))
	})
}

func bondFutureParSpread(env calc.Env, t product.ResolvedBondFutureTrade, v bondFutureView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (float64, error) {
		return bondFuturePricer.ParSpread(t, v.Scenario(i))
	})
}

func bondFutureCurrencyExposure(env calc.Env, t product.ResolvedBondFutureTrade, v bondFutureView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (currency.MultiAmount, error) {
		pv, err := bondFuturePricer.PresentValue(t, v.Scenario(i))
		if err != nil {
			return currency.MultiAmount{}, err
		}
		return currency.MultiAmountOf(pv), nil
	})
}

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

type termDepositView = lookup.RatesScenarioView

var termDepositPricer = pricer.TermDepositPricer{}

var termDepositTable = calc.NewTable(
	calc.Entry(measure.PresentValue, termDepositPresentValue),
	calc.Entry(measure.PV01CalibratedSum, termDepositPV01Sum),
	calc.Entry(measure.PV01CalibratedBucketed, termDepositPV01Bucketed),
	calc.Entry(measure.ParRate, termDepositParRate),
	calc.Entry(measure.ParSpread, termDepositParSpread),
	calc.Entry(measure.CurrencyExposure, termDepositCurrencyExposure),
	calc.ResolvedTargetEntry[product.ResolvedTermDepositTrade, termDepositView](),
)

// TermDepositTrade calculates measures for term deposits discounted on the
// currency's discount curve.
var TermDepositTrade = calc.NewFunction(calc.Spec[product.TermDepositTrade, product.ResolvedTermDepositTrade, termDepositView]{
	TargetType: "TermDepositTrade",
	Table:      termDepositTable,
	Identifier: func(t product.TermDepositTrade) (string, bool) { return t.Info.ID, t.Info.HasID() },
	NaturalCurrency: func(t product.TermDepositTrade, _ refdata.ReferenceData) (currency.Currency, error) {
		return t.Product.Currency, nil
	},
	Requirements: func(t product.TermDepositTrade, _ []measure.Measure, ps params.Parameters, _ refdata.ReferenceData) (marketdata.Requirements, error) {
		l, err := params.Get[lookup.RatesLookup](ps)
		if err != nil {
			return marketdata.Requirements{}, err
		}
		return l.Requirements(t.Product.Currency)
	},
	View: func(ps params.Parameters, md marketdata.ScenarioMarketData) (termDepositView, error) {
		l, err := params.Get[lookup.RatesLookup](ps)
		if err != nil {
			return termDepositView{}, err
		}
		return l.MarketDataView(md), nil
	},
})

func termDepositPV(t product.ResolvedTermDepositTrade) func(lookup.RatesProvider) (float64, error) {
	return func(p lookup.RatesProvider) (float64, error) {
		df, err := p.DiscountFactors(t.Product.Currency)
		if err != nil {
			return 0, err
		}
		return termDepositPricer.PresentValue(t.Product, df).Value, nil
	}
}

func termDepositPresentValue(env calc.Env, t product.ResolvedTermDepositTrade, v termDepositView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (currency.Amount, error) {
		pv, err := termDepositPV(t)(v.Scenario(i))
		return currency.AmountOf(t.Product.Currency, pv), err
	})
}

func termDepositPV01Sum(env calc.Env, t product.ResolvedTermDepositTrade, v termDepositView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (currency.MultiAmount, error) {
		p := v.Scenario(i)
		ids, err := p.CurveIDs(t.Product.Currency)
		if err != nil {
			return currency.MultiAmount{}, err
		}
		return pricer.PV01(p, ids, t.Product.Currency, termDepositPV(t))
	})
}

func termDepositPV01Bucketed(env calc.Env, t product.ResolvedTermDepositTrade, v termDepositView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (curve.Sensitivities, error) {
		p := v.Scenario(i)
		ids, err := p.CurveIDs(t.Product.Currency)
		if err != nil {
			return curve.Sensitivities{}, err
		}
		return pricer.BucketedPV01(p, ids, t.Product.Currency, termDepositPV(t))
	})
}

func termDepositParRate(env calc.Env, t product.ResolvedTermDepositTrade, v termDepositView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (float64, error) {
		df, err := v.Scenario(i).DiscountFactors(t.Product.Currency)
		if err != nil {
			return 0, err
		}
		return termDepositPricer.ParRate(t.Product, df)
	})
}

func termDepositParSpread(env calc.Env, t product.ResolvedTermDepositTrade, v termDepositView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (float64, error) {
		df, err := v.Scenario(i).DiscountFactors(t.Product.Currency)
		if err != nil {
			return 0, err
		}
		return termDepositPricer.ParSpread(t.Product, df)
	})
}

func termDepositCurrencyExposure(env calc.Env, t product.ResolvedTermDepositTrade, v termDepositView) (any, error) {
	return calc.Scenarios(env, v.ScenarioCount(), func(i int) (currency.MultiAmount, error) {
		pv, err := termDepositPV(t)(v.Scenario(i))
		if err != nil {
			return currency.MultiAmount{}, err
		}
		return currency.MultiAmountOf(currency.AmountOf(t.Product.Currency, pv)), nil
	})
}

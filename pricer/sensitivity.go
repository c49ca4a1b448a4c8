package pricer

import (
	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/lookup"
	"github.com/rustyeddy/measures/marketdata"
)

// OneBasisPoint is the zero rate shift used for PV01.
const OneBasisPoint = 1e-4

// BucketedPV01 bumps each node of each curve by one basis point and records
// the change in present value.
func BucketedPV01[P lookup.CurveProvider[P]](p P, ids []marketdata.CurveID, ccy currency.Currency, pv func(P) (float64, error)) (curve.Sensitivities, error) {
	base, err := pv(p)
	if err != nil {
		return curve.Sensitivities{}, err
	}
	var out curve.Sensitivities
	for _, id := range ids {
		c, err := p.Curve(id)
		if err != nil {
			return curve.Sensitivities{}, err
		}
		values := make([]float64, c.ParameterCount())
		for i := range values {
			bumped, err := pv(p.WithCurve(id, c.WithParameterShift(i, OneBasisPoint)))
			if err != nil {
				return curve.Sensitivities{}, err
			}
			values[i] = bumped - base
		}
		out = out.Combine(curve.SensitivitiesOf(curve.Sensitivity{
			CurveName: c.Name,
			Currency:  ccy,
			Labels:    c.Labels(),
			Values:    values,
		}))
	}
	return out, nil
}

// PV01 is the bucketed PV01 summed per currency.
func PV01[P lookup.CurveProvider[P]](p P, ids []marketdata.CurveID, ccy currency.Currency, pv func(P) (float64, error)) (currency.MultiAmount, error) {
	s, err := BucketedPV01(p, ids, ccy, pv)
	if err != nil {
		return currency.MultiAmount{}, err
	}
	if s.Size() == 0 {
		return currency.MultiAmountOf(currency.AmountOf(ccy, 0)), nil
	}
	return s.Total(), nil
}

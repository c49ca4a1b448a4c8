package journal

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/measure"
	"github.com/rustyeddy/measures/result"
	"github.com/rustyeddy/measures/scenario"
	"github.com/shopspring/decimal"
)

// Target identifies the target a set of results belongs to.
type Target struct {
	ID   string
	Type string
}

// Records flattens calculation results into journal rows, one per measure,
// scenario and currency. Measures are emitted in name order.
func Records(runID string, target Target, results map[measure.Measure]result.Result[any]) []ResultRecord {
	ms := make([]measure.Measure, 0, len(results))
	for m := range results {
		ms = append(ms, m)
	}
	measure.Sort(ms)

	var out []ResultRecord
	for _, m := range ms {
		base := ResultRecord{
			RunID:      runID,
			TargetID:   target.ID,
			TargetType: target.Type,
			Measure:    m.Name(),
			Scenario:   -1,
		}
		r := results[m]
		if f := r.Failure(); f != nil {
			base.Status = StatusFailure
			base.Reason = string(f.Reason)
			base.Message = f.Message
			out = append(out, base)
			continue
		}
		base.Status = StatusSuccess
		out = append(out, valueRecords(base, r.Value())...)
	}
	return out
}

func valueRecords(base ResultRecord, v any) []ResultRecord {
	switch v := v.(type) {
	case scenario.Array[currency.Amount]:
		return perScenario(base, v.Values(), amountRecords)
	case scenario.Array[currency.MultiAmount]:
		return perScenario(base, v.Values(), multiAmountRecords)
	case scenario.Array[curve.Sensitivities]:
		return perScenario(base, v.Values(), func(b ResultRecord, s curve.Sensitivities) []ResultRecord {
			return multiAmountRecords(b, s.Total())
		})
	case scenario.Array[float64]:
		return perScenario(base, v.Values(), func(b ResultRecord, f float64) []ResultRecord {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				b.Value = strconv.FormatFloat(f, 'g', -1, 64)
			} else {
				b.Value = decimal.NewFromFloat(f).String()
			}
			return []ResultRecord{b}
		})
	case currency.Amount:
		return amountRecords(base, v)
	case currency.MultiAmount:
		return multiAmountRecords(base, v)
	default:
		base.Value = fmt.Sprintf("%+v", v)
		return []ResultRecord{base}
	}
}

func perScenario[S any](base ResultRecord, values []S, fn func(ResultRecord, S) []ResultRecord) []ResultRecord {
	var out []ResultRecord
	for i, v := range values {
		b := base
		b.Scenario = i
		out = append(out, fn(b, v)...)
	}
	return out
}

func amountRecords(b ResultRecord, a currency.Amount) []ResultRecord {
	b.Currency = a.Currency.String()
	if a.IsFinite() {
		b.Amount = decimal.NewNullDecimal(a.Decimal())
	}
	b.Value = a.String()
	return []ResultRecord{b}
}

func multiAmountRecords(b ResultRecord, m currency.MultiAmount) []ResultRecord {
	amounts := m.Amounts()
	out := make([]ResultRecord, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, amountRecords(b, a)...)
	}
	return out
}

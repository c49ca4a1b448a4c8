package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/measure"
	"github.com/rustyeddy/measures/scenario"
)

// PrintReport writes a human readable summary. Multi-scenario numeric
// measures are summarized with their distribution.
func PrintReport(w io.Writer, r *Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Calculation Run")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Created:       %s\n", r.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Valuation:     %s\n", r.ValuationDate.Format(time.DateOnly))
	fmt.Fprintf(w, "Scenarios:     %d\n", r.Scenarios)
	fmt.Fprintf(w, "Targets:       %d\n", len(r.Targets))
	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "Missing data:  %v\n", r.Missing)
	}

	for _, tr := range r.Targets {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s (%s)\n", tr.Target.ID, tr.Target.Type)
		fmt.Fprintln(w, "--------------------------------------------------")
		ms := make([]measure.Measure, 0, len(tr.Results))
		for m := range tr.Results {
			ms = append(ms, m)
		}
		measure.Sort(ms)
		for _, m := range ms {
			res := tr.Results[m]
			if f := res.Failure(); f != nil {
				fmt.Fprintf(w, "  %-24s FAILED %s: %s\n", m.Name(), f.Reason, f.Message)
				continue
			}
			fmt.Fprintf(w, "  %-24s %s\n", m.Name(), FormatValue(res.Value()))
		}
	}
}

// FormatValue renders a measure value on one line.
func FormatValue(v any) string {
	switch v := v.(type) {
	case scenario.Array[currency.Amount]:
		if v.Len() == 1 {
			return v.Get(0).String()
		}
		return fmt.Sprintf("%s %s", v.Get(0).Currency, scenario.Summarize(scenario.AmountValues(v)))
	case scenario.Array[float64]:
		if v.Len() == 1 {
			return fmt.Sprintf("%.8g", v.Get(0))
		}
		return scenario.Summarize(v.Values()).String()
	case scenario.Array[currency.MultiAmount]:
		if v.Len() == 1 {
			return v.Get(0).String()
		}
		return fmt.Sprintf("%d scenarios, first %s", v.Len(), v.Get(0))
	case scenario.Array[curve.Sensitivities]:
		if v.Len() == 1 {
			return v.Get(0).String()
		}
		return fmt.Sprintf("%d scenarios, first %s", v.Len(), v.Get(0))
	default:
		return fmt.Sprintf("%+v", v)
	}
}

package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatRunOrg renders a run and its results as an Org-mode block: the run
// facts in a PROPERTIES drawer followed by one results table per target.
func FormatRunOrg(run RunRecord, results []ResultRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Run: %s (%s)\n", run.ValuationDate.Format(time.DateOnly), shortID(run.RunID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", run.RunID)
	fmt.Fprintf(&b, ":CREATED: %s\n", run.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":VALUATION_DATE: %s\n", run.ValuationDate.Format(time.DateOnly))
	fmt.Fprintf(&b, ":SCENARIOS: %d\n", run.Scenarios)
	fmt.Fprintf(&b, ":TARGETS: %d\n", run.Targets)
	fmt.Fprintf(&b, ":SOURCE: %s\n", run.Source)
	b.WriteString(":END:\n")

	target := ""
	for _, r := range results {
		if r.TargetID != target {
			target = r.TargetID
			fmt.Fprintf(&b, "\n*** %s %s\n", r.TargetType, r.TargetID)
			b.WriteString("| Measure | Scenario | Status | Currency | Amount | Value |\n")
			b.WriteString("|---------+----------+--------+----------+--------+-------|\n")
		}
		amount := ""
		if r.Amount.Valid {
			amount = r.Amount.Decimal.String()
		}
		value := r.Value
		if r.Status == StatusFailure {
			value = r.Reason + ": " + r.Message
		}
		scen := "all"
		if r.Scenario >= 0 {
			scen = fmt.Sprint(r.Scenario)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			r.Measure, scen, r.Status, r.Currency, amount, strings.ReplaceAll(value, "|", "\\vert{}"))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

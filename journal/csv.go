package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CSV writes runs and results to a single results file. Run rows carry
// their details in the value column.
type CSV struct {
	w *csv.Writer
	f *os.File
}

var csvHeader = []string{"kind", "run_id", "target_id", "target_type", "measure", "scenario", "status", "reason", "message", "currency", "amount", "value"}

func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordRun(r RunRecord) error {
	err := j.w.Write([]string{
		"run", r.RunID,
		"", "", "", "", "", "", "", "", "",
		fmt.Sprintf("created=%s valuation=%s scenarios=%d targets=%d source=%s",
			r.CreatedAt.UTC().Format(time.RFC3339), r.ValuationDate.Format(time.DateOnly), r.Scenarios, r.Targets, r.Source),
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) RecordResult(r ResultRecord) error {
	amount := ""
	if r.Amount.Valid {
		amount = r.Amount.Decimal.String()
	}
	err := j.w.Write([]string{
		"result",
		r.RunID,
		r.TargetID,
		r.TargetType,
		r.Measure,
		strconv.Itoa(r.Scenario),
		r.Status,
		r.Reason,
		r.Message,
		r.Currency,
		amount,
		r.Value,
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		_ = j.f.Close()
		return err
	}
	return j.f.Close()
}

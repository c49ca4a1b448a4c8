// Package engine runs every target of a portfolio through its calculation
// function and records the results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/measures/calc"
	"github.com/rustyeddy/measures/calculations"
	"github.com/rustyeddy/measures/internal/portfolio"
	"github.com/rustyeddy/measures/journal"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/measure"
	"github.com/rustyeddy/measures/params"
	"github.com/rustyeddy/measures/pkg/id"
	"github.com/rustyeddy/measures/result"
	"github.com/rustyeddy/measures/workers"
)

// ErrMissingMarketData is returned by Run when FailOnMissingData is set and
// the portfolio's market data lacks a required value.
var ErrMissingMarketData = errors.New("missing market data")

// Options controls how the runner behaves.
type Options struct {
	// Workers bounds the targets evaluated at once. Zero means GOMAXPROCS.
	Workers           int
	FailOnMissingData bool
	// Source is recorded with the run, typically the portfolio path.
	Source string
}

// Runner drives a portfolio through the registry.
type Runner struct {
	Registry *calculations.Registry
	Params   params.Parameters
	Journal  journal.Journal
	Log      zerolog.Logger
	Options  Options
}

// TargetRequirements is the market data one target needs.
type TargetRequirements struct {
	Target       portfolio.Target
	Requirements marketdata.Requirements
}

// TargetResult is the outcome of every requested measure for one target.
type TargetResult struct {
	Target  portfolio.Target
	Results map[measure.Measure]result.Result[any]
}

type Report struct {
	RunID         string
	CreatedAt     time.Time
	ValuationDate time.Time
	Scenarios     int
	Measures      []measure.Measure
	Missing       []marketdata.ID
	Targets       []TargetResult
}

// Requirements asks each target's function for its market data and returns
// the per-target sets together with their union.
func (r *Runner) Requirements(p *portfolio.Portfolio) ([]TargetRequirements, marketdata.Requirements, error) {
	if r.Registry == nil {
		return nil, marketdata.Requirements{}, fmt.Errorf("engine: Registry is required")
	}
	out := make([]TargetRequirements, 0, len(p.Targets))
	all := make([]marketdata.Requirements, 0, len(p.Targets))
	for _, t := range p.Targets {
		fn, err := r.Registry.For(t.Value)
		if err != nil {
			return nil, marketdata.Requirements{}, fmt.Errorf("target %s: %w", t.ID, err)
		}
		reqs, err := fn.Requirements(t.Value, p.Measures, r.Params, p.RefData)
		if err != nil {
			return nil, marketdata.Requirements{}, fmt.Errorf("target %s: %w", t.ID, err)
		}
		out = append(out, TargetRequirements{Target: t, Requirements: reqs})
		all = append(all, reqs)
	}
	return out, marketdata.CombineAll(all...), nil
}

// Run calculates every target. Failures of individual measures are part of
// the report; Run only errors when the batch cannot be evaluated at all.
func (r *Runner) Run(ctx context.Context, p *portfolio.Portfolio) (*Report, error) {
	_, reqs, err := r.Requirements(p)
	if err != nil {
		return nil, err
	}
	missing := marketdata.Missing(p.MarketData, reqs)
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = m.String()
		}
		if r.Options.FailOnMissingData {
			return nil, fmt.Errorf("%w: %s", ErrMissingMarketData, strings.Join(names, ", "))
		}
		r.Log.Warn().Strs("ids", names).Msg("market data missing, affected measures will fail")
	}

	runID := id.New()
	created, err := id.Time(runID)
	if err != nil {
		return nil, err
	}
	report := &Report{
		RunID:         runID,
		CreatedAt:     created,
		ValuationDate: p.ValuationDate,
		Scenarios:     p.MarketData.ScenarioCount(),
		Measures:      p.Measures,
		Missing:       missing,
	}
	log := r.Log.With().Str("run_id", runID).Logger()
	log.Info().
		Int("targets", len(p.Targets)).
		Int("scenarios", report.Scenarios).
		Int("measures", len(p.Measures)).
		Msg("run started")

	j := r.Journal
	if j == nil {
		j = journal.Nop{}
	}
	if err := j.RecordRun(journal.RunRecord{
		RunID:         runID,
		CreatedAt:     created,
		ValuationDate: p.ValuationDate,
		Scenarios:     report.Scenarios,
		Targets:       len(p.Targets),
		Source:        r.Options.Source,
	}); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	pool := workers.New(r.Options.Workers)
	report.Targets, err = workers.Map(ctx, pool, len(p.Targets), func(ctx context.Context, i int) (TargetResult, error) {
		return r.calculate(ctx, p, p.Targets[i])
	})
	if err != nil {
		return nil, err
	}

	failures := 0
	for _, tr := range report.Targets {
		recs := journal.Records(runID, journal.Target{ID: tr.Target.ID, Type: tr.Target.Type}, tr.Results)
		if err := recordAll(j, recs); err != nil {
			return nil, fmt.Errorf("record results for %s: %w", tr.Target.ID, err)
		}
		for _, res := range tr.Results {
			if res.IsFailure() {
				failures++
			}
		}
	}
	log.Info().Int("failures", failures).Msg("run finished")
	return report, nil
}

// calculate evaluates one target. A batch error only fails that target:
// every requested measure carries the failure so the run keeps going and
// the journal still holds a row per measure. Cancellation stops the run.
func (r *Runner) calculate(ctx context.Context, p *portfolio.Portfolio, t portfolio.Target) (TargetResult, error) {
	fn, err := r.Registry.For(t.Value)
	if err != nil {
		r.Log.Error().Err(err).Str("target", t.ID).Msg("no calculation function")
		return failedTarget(t, p.Measures, result.Wrap(result.Unsupported, err)), nil
	}
	results, err := fn.Calculate(ctx, t.Value, p.Measures, r.Params, p.MarketData, p.RefData)
	switch {
	case err == nil:
		return TargetResult{Target: t, Results: results}, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return TargetResult{}, fmt.Errorf("target %s: %w", t.ID, err)
	case errors.Is(err, calc.ErrResolution):
		r.Log.Error().Err(err).Str("target", t.ID).Msg("target could not be resolved")
		return failedTarget(t, p.Measures, result.Wrap(result.Resolution, err)), nil
	default:
		r.Log.Error().Err(err).Str("target", t.ID).Msg("target batch failed")
		return failedTarget(t, p.Measures, calc.Classify(err)), nil
	}
}

func failedTarget(t portfolio.Target, ms []measure.Measure, err error) TargetResult {
	results := make(map[measure.Measure]result.Result[any], len(ms))
	for _, m := range ms {
		results[m] = result.FromError[any](err)
	}
	return TargetResult{Target: t, Results: results}
}

// recordAll uses the SQLite batch insert when available.
func recordAll(j journal.Journal, recs []journal.ResultRecord) error {
	if b, ok := j.(interface {
		RecordResults([]journal.ResultRecord) error
	}); ok {
		return b.RecordResults(recs)
	}
	for _, rec := range recs {
		if err := j.RecordResult(rec); err != nil {
			return err
		}
	}
	return nil
}

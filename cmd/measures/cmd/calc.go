package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rustyeddy/measures/calc"
	"github.com/rustyeddy/measures/calculations"
	"github.com/rustyeddy/measures/internal/engine"
	"github.com/rustyeddy/measures/internal/portfolio"
	"github.com/rustyeddy/measures/journal"
	"github.com/rustyeddy/measures/measure"
	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc <portfolio.yaml>",
	Short: "Calculate measures for every target in a portfolio",
	Long: `Load a portfolio, check its market data and calculate the requested
measures for each trade and position. Results are printed and recorded to the
configured journal.

Examples:
  measures calc examples/portfolio.yaml
  measures calc -c measures.yaml --measures PresentValue,PV01CalibratedSum examples/portfolio.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runCalc,
}

var (
	calcMeasures      []string
	calcWorkers       int
	calcFailOnMissing bool
	calcNoJournal     bool
)

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().StringSliceVarP(&calcMeasures, "measures", "m", nil, "measures to calculate, overriding the portfolio")
	calcCmd.Flags().IntVarP(&calcWorkers, "workers", "w", -1, "concurrent evaluations (default from config)")
	calcCmd.Flags().BoolVar(&calcFailOnMissing, "fail-on-missing", false, "stop before calculating when market data is missing")
	calcCmd.Flags().BoolVar(&calcNoJournal, "no-journal", false, "do not record the run")
}

func runCalc(cmd *cobra.Command, args []string) error {
	p, err := portfolio.Load(args[0])
	if err != nil {
		return err
	}
	if len(calcMeasures) > 0 {
		p.Measures = p.Measures[:0]
		for _, name := range calcMeasures {
			m, err := measure.Parse(name)
			if err != nil {
				return err
			}
			p.Measures = append(p.Measures, m)
		}
	}

	ps, err := cfg.Parameters()
	if err != nil {
		return fmt.Errorf("lookup config: %w", err)
	}
	workers := cfg.Engine.Workers
	if calcWorkers >= 0 {
		workers = calcWorkers
	}

	var j journal.Journal = journal.Nop{}
	if !calcNoJournal {
		if j, err = openJournal(); err != nil {
			return fmt.Errorf("create journal: %w", err)
		}
	}
	defer j.Close()

	r := &engine.Runner{
		Registry: calculations.Standard(calc.WithWorkers(workers), calc.WithLogger(log)),
		Params:   ps,
		Journal:  j,
		Log:      log,
		Options: engine.Options{
			Workers:           workers,
			FailOnMissingData: calcFailOnMissing || cfg.Engine.FailOnMissingData,
			Source:            args[0],
		},
	}
	report, err := r.Run(cmd.Context(), p)
	if err != nil {
		return err
	}
	engine.PrintReport(cmd.OutOrStdout(), report)
	return nil
}

// openJournal opens the journal described by the loaded config.
func openJournal() (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(cfg.Journal.ResultsFile)
	default:
		if dir := dirOf(cfg.Journal.DBPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
}

func dirOf(path string) string {
	d := filepath.Dir(path)
	if d == "." {
		return ""
	}
	return d
}

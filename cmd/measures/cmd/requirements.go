package cmd

import (
	"fmt"

	"github.com/rustyeddy/measures/calculations"
	"github.com/rustyeddy/measures/internal/engine"
	"github.com/rustyeddy/measures/internal/portfolio"
	"github.com/spf13/cobra"
)

var requirementsCmd = &cobra.Command{
	Use:   "requirements <portfolio.yaml>",
	Short: "List the market data a portfolio requires",
	Long: `Print the market data ids and output currencies each target needs,
marking ids the portfolio's market data does not provide.

Example:
  measures requirements examples/portfolio.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRequirements,
}

func init() {
	rootCmd.AddCommand(requirementsCmd)
}

func runRequirements(cmd *cobra.Command, args []string) error {
	p, err := portfolio.Load(args[0])
	if err != nil {
		return err
	}
	ps, err := cfg.Parameters()
	if err != nil {
		return fmt.Errorf("lookup config: %w", err)
	}
	r := &engine.Runner{Registry: calculations.Standard(), Params: ps, Log: log}
	per, all, err := r.Requirements(p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, tr := range per {
		fmt.Fprintf(out, "%s (%s)\n", tr.Target.ID, tr.Target.Type)
		for _, id := range tr.Requirements.ValueIDs() {
			mark := " "
			if !p.MarketData.Contains(id) {
				mark = "!"
			}
			fmt.Fprintf(out, "  %s %-10s %s\n", mark, id.MarketDataType(), id)
		}
		fmt.Fprintf(out, "    outputs %v\n", tr.Requirements.OutputCurrencies())
	}
	fmt.Fprintf(out, "\n%d distinct ids, %d output currencies\n", len(all.ValueIDs()), len(all.OutputCurrencies()))
	return nil
}

package cmd

import (
	"fmt"

	"github.com/rustyeddy/measures/calculations"
	"github.com/spf13/cobra"
)

var measuresCmd = &cobra.Command{
	Use:   "measures",
	Short: "List supported measures per target type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := calculations.Standard()
		out := cmd.OutOrStdout()
		for _, name := range reg.TargetTypes() {
			fn, _ := reg.Lookup(name)
			fmt.Fprintln(out, name)
			for _, m := range fn.SupportedMeasures() {
				kind := "per scenario"
				if m.IsScenarioAggregate() {
					kind = "aggregate"
				}
				fmt.Fprintf(out, "  %-24s %s\n", m.Name(), kind)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(measuresCmd)
}

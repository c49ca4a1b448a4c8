package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/measures/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded calculation runs",
	Long: `Query and display calculation runs from the SQLite journal.

Subcommands:
  run   - Show the results of a run
  runs  - List recent runs

Examples:
  measures journal runs -n 5
  measures journal run 01HQ... --org`,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show the results of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var (
	journalDBPath string
	journalOrg    bool
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalRunsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default from config)")
	journalRunCmd.Flags().BoolVar(&journalOrg, "org", false, "print as an org-mode document")
	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of runs to list")
}

func openSQLite() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal db configured, use --db")
	}
	return journal.NewSQLite(path)
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := openSQLite()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	run, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	recs, err := j.ListResults(run.RunID)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	out := cmd.OutOrStdout()
	if journalOrg {
		fmt.Fprint(out, journal.FormatRunOrg(run, recs))
		return nil
	}
	fmt.Fprintf(out, "Run %s valued %s, %d targets, %d scenarios\n",
		run.RunID, run.ValuationDate.Format(time.DateOnly), run.Targets, run.Scenarios)
	for _, r := range recs {
		if r.Status == journal.StatusFailure {
			fmt.Fprintf(out, "  %-8s %-24s %3d  %s %s\n", r.TargetID, r.Measure, r.Scenario, r.Reason, r.Message)
			continue
		}
		fmt.Fprintf(out, "  %-8s %-24s %3d  %s\n", r.TargetID, r.Measure, r.Scenario, r.Value)
	}
	return nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openSQLite()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(journalLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  valued %s  targets=%d scenarios=%d  %s\n",
			r.RunID, r.CreatedAt.Local().Format(time.DateTime), r.ValuationDate.Format(time.DateOnly), r.Targets, r.Scenarios, r.Source)
	}
	return nil
}

package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/measures/config"
	"github.com/rustyeddy/measures/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPortfolio = "../../../internal/portfolio/testdata/portfolio.yaml"

// execute runs the root command. Commands share package-level flag state,
// so these tests do not run in parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, logLevel = "", ""
	calcMeasures, calcWorkers, calcFailOnMissing, calcNoJournal = nil, -1, false, false
	journalDBPath, journalOrg, journalLimit = "", false, 20

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	c := config.Default()
	c.Log.Level = "disabled"
	c.Journal.DBPath = filepath.Join(dir, "journal", "runs.db")
	path := filepath.Join(dir, "measures.yaml")
	require.NoError(t, c.SaveToFile(path))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "measures version "+version)
}

func TestMeasuresCommand(t *testing.T) {
	out, err := execute(t, "measures")
	require.NoError(t, err)
	assert.Contains(t, out, "BondFuturePosition")
	assert.Contains(t, out, "TermDepositTrade")
	assert.Contains(t, out, "ResolvedTarget")
	assert.Contains(t, out, "aggregate")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Curve group: Default")

	_, err = execute(t, "config", "validate", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRequirementsCommand(t *testing.T) {
	out, err := execute(t, "-c", testConfig(t), "requirements", testPortfolio)
	require.NoError(t, err)
	assert.Contains(t, out, "T1 (BondFutureTrade)")
	assert.Contains(t, out, "USD-Repo")
	assert.NotContains(t, out, "  ! ")
}

func TestCalcRecordsAndJournalQueries(t *testing.T) {
	cfgPath := testConfig(t)

	out, err := execute(t, "-c", cfgPath, "calc", testPortfolio)
	require.NoError(t, err)
	assert.Contains(t, out, "Calculation Run")
	assert.Contains(t, out, "P1 (BondFuturePosition)")

	out, err = execute(t, "-c", cfgPath, "journal", "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "targets=3 scenarios=2")

	c, err := config.LoadFromFile(cfgPath)
	require.NoError(t, err)
	j, err := journal.NewSQLite(c.Journal.DBPath)
	require.NoError(t, err)
	runs, err := j.ListRuns(1)
	require.NoError(t, j.Close())
	require.NoError(t, err)
	require.Len(t, runs, 1)

	out, err = execute(t, "-c", cfgPath, "journal", "run", runs[0].RunID, "--org")
	require.NoError(t, err)
	assert.Contains(t, out, ":RUN_ID: "+runs[0].RunID)
	assert.Contains(t, out, "*** BondFutureTrade T1")
}

func TestCalcMeasureOverride(t *testing.T) {
	out, err := execute(t, "-c", testConfig(t), "calc", "--no-journal", "-m", "ParRate", testPortfolio)
	require.NoError(t, err)
	assert.Contains(t, out, "FAILED UNSUPPORTED")
	assert.NotContains(t, out, "PresentValue")

	_, err = execute(t, "-c", testConfig(t), "calc", "--no-journal", "-m", "Gamma", testPortfolio)
	assert.Error(t, err)
}

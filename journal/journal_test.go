package journal

import (
	"database/sql"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/measure"
	"github.com/rustyeddy/measures/result"
	"github.com/rustyeddy/measures/scenario"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	return j, path
}

func testRun(id string, created time.Time) RunRecord {
	return RunRecord{
		RunID:         id,
		CreatedAt:     created,
		ValuationDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Scenarios:     2,
		Targets:       1,
		Source:        "portfolio.yaml",
	}
}

func testResults() map[measure.Measure]result.Result[any] {
	out := make(map[measure.Measure]result.Result[any])
	out[measure.PresentValue] = result.Success[any](scenario.ArrayOf(
		currency.AmountOf(currency.USD, 1234.5678),
		currency.AmountOf(currency.USD, -10),
	))
	out[measure.ParRate] = result.FailureOf[any](result.Unsupported, "Unsupported measure for BondFuturePosition: ParRate")
	out[measure.ParSpread] = result.Success[any](scenario.ArrayOf(0.0125, 0.015))
	out[measure.CurrencyExposure] = result.Success[any](scenario.ArrayOf(
		currency.MultiAmountOf(currency.AmountOf(currency.USD, 1), currency.AmountOf(currency.EUR, 2)),
	))
	return out
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','results')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())
	assert.True(t, found["runs"])
	assert.True(t, found["results"])
}

func TestRecords(t *testing.T) {
	t.Parallel()

	recs := Records("R1", Target{ID: "P1", Type: "BondFuturePosition"}, testResults())
	// CurrencyExposure x2 currencies, ParRate, ParSpread x2, PresentValue x2
	require.Len(t, recs, 7)

	assert.Equal(t, "CurrencyExposure", recs[0].Measure)
	assert.Equal(t, "EUR", recs[0].Currency)
	assert.Equal(t, "USD", recs[1].Currency)

	assert.Equal(t, "ParRate", recs[2].Measure)
	assert.Equal(t, StatusFailure, recs[2].Status)
	assert.Equal(t, "UNSUPPORTED", recs[2].Reason)
	assert.Equal(t, -1, recs[2].Scenario)

	assert.Equal(t, "0.0125", recs[3].Value)
	assert.Equal(t, 1, recs[4].Scenario)

	pv := recs[5]
	assert.Equal(t, "PresentValue", pv.Measure)
	require.True(t, pv.Amount.Valid)
	assert.True(t, decimal.RequireFromString("1234.57").Equal(pv.Amount.Decimal))
	assert.Equal(t, 0, pv.Scenario)
}

func TestRecords_ResolvedTarget(t *testing.T) {
	t.Parallel()

	type resolved struct{ Quantity float64 }
	recs := Records("R1", Target{ID: "P1"}, map[measure.Measure]result.Result[any]{
		measure.ResolvedTarget: result.Success[any](resolved{Quantity: 3}),
	})
	require.Len(t, recs, 1)
	assert.Equal(t, "{Quantity:3}", recs[0].Value)
	assert.Equal(t, -1, recs[0].Scenario)
}

func TestRecords_NonFinite(t *testing.T) {
	t.Parallel()

	recs := Records("R1", Target{ID: "P1"}, map[measure.Measure]result.Result[any]{
		measure.PresentValue: result.Success[any](scenario.ArrayOf(
			currency.AmountOf(currency.USD, math.NaN()),
			currency.AmountOf(currency.USD, 5),
		)),
		measure.ParRate: result.Success[any](scenario.ArrayOf(math.Inf(1))),
	})
	require.Len(t, recs, 3)

	assert.Equal(t, "ParRate", recs[0].Measure)
	assert.Equal(t, "+Inf", recs[0].Value)

	nan := recs[1]
	assert.Equal(t, "USD", nan.Currency)
	assert.False(t, nan.Amount.Valid)
	assert.Equal(t, "USD NaN", nan.Value)

	assert.True(t, recs[2].Amount.Valid)
	assert.Equal(t, "USD 5.00", recs[2].Value)

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	require.NoError(t, j.RecordRun(testRun("R1", time.Now().UTC())))
	for _, rec := range recs {
		require.NoError(t, j.RecordResult(rec))
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	run := testRun("01HRUN0000000000000000000A", time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC))
	require.NoError(t, j.RecordRun(run))

	recs := Records(run.RunID, Target{ID: "P1", Type: "BondFuturePosition"}, testResults())
	require.NoError(t, j.RecordResults(recs[:3]))
	for _, r := range recs[3:] {
		require.NoError(t, j.RecordResult(r))
	}

	got, err := j.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
	assert.True(t, got.CreatedAt.Equal(run.CreatedAt))
	assert.True(t, got.ValuationDate.Equal(run.ValuationDate))
	assert.Equal(t, run.Scenarios, got.Scenarios)
	assert.Equal(t, run.Source, got.Source)

	stored, err := j.ListResults(run.RunID)
	require.NoError(t, err)
	require.Len(t, stored, len(recs))

	var pv []ResultRecord
	for _, r := range stored {
		if r.Measure == "PresentValue" {
			pv = append(pv, r)
		}
		if r.Measure == "ParRate" {
			assert.False(t, r.Amount.Valid)
			assert.Equal(t, "UNSUPPORTED", r.Reason)
		}
	}
	require.Len(t, pv, 2)
	assert.Equal(t, "1234.57", pv[0].Amount.Decimal.String())
	assert.Equal(t, "-10", pv[1].Amount.Decimal.String())
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetRun("nonexistent")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"01A", "01B", "01C"} {
		require.NoError(t, j.RecordRun(testRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := j.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "01C", all[0].RunID)

	two, err := j.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	between, err := j.ListRunsBetween(base.Add(30*time.Minute), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, between, 1)
	assert.Equal(t, "01B", between[0].RunID)
}

func TestCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	run := testRun("R1", time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC))
	require.NoError(t, j.RecordRun(run))
	for _, r := range Records(run.RunID, Target{ID: "P1", Type: "BondFuturePosition"}, testResults()) {
		require.NoError(t, j.RecordResult(r))
	}
	require.NoError(t, j.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+1+7)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "run", rows[1][0])
	assert.Contains(t, rows[1][11], "valuation=2024-01-02")
	assert.Equal(t, "result", rows[2][0])
}

func TestFormatRunOrg(t *testing.T) {
	t.Parallel()

	run := testRun("01HRUN0000000000000000000A", time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC))
	out := FormatRunOrg(run, Records(run.RunID, Target{ID: "P1", Type: "BondFuturePosition"}, testResults()))

	assert.Contains(t, out, "** Run: 2024-01-02 (01HRUN00)")
	assert.Contains(t, out, ":RUN_ID: 01HRUN0000000000000000000A")
	assert.Contains(t, out, ":SCENARIOS: 2")
	assert.Contains(t, out, "*** BondFuturePosition P1")
	assert.Contains(t, out, "| PresentValue | 0 | SUCCESS | USD | 1234.57 |")
	assert.Contains(t, out, "| ParRate | all | FAILURE |")
}

func TestNop(t *testing.T) {
	t.Parallel()

	var j Journal = Nop{}
	assert.NoError(t, j.RecordRun(RunRecord{}))
	assert.NoError(t, j.RecordResult(ResultRecord{}))
	assert.NoError(t, j.Close())
}

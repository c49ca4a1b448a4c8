package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned by GetRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `run_id, created_at, valuation_date, scenarios, targets, source`

func scanRun(row interface{ Scan(...any) error }) (RunRecord, error) {
	var rec RunRecord
	err := row.Scan(
		&rec.RunID,
		&rec.CreatedAt,
		&rec.ValuationDate,
		&rec.Scenarios,
		&rec.Targets,
		&rec.Source,
	)
	return rec, err
}

// GetRun returns a single run record by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns the most recent runs first, at most limit of them. A
// limit of zero or less returns every run.
func (j *SQLite) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRuns(rows)
}

// ListRunsBetween returns runs whose created_at is within [start, end).
func (j *SQLite) ListRunsBetween(start, end time.Time) ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+runColumns+`
		FROM runs
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRuns(rows)
}

func collectRuns(rows *sql.Rows) ([]RunRecord, error) {
	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListResults returns the results of a run ordered by target, measure and
// scenario.
func (j *SQLite) ListResults(runID string) ([]ResultRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, target_id, target_type, measure, scenario, status, reason, message, currency, amount, value
		FROM results
		WHERE run_id = ?
		ORDER BY target_id, measure, scenario, currency`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.TargetID,
			&rec.TargetType,
			&rec.Measure,
			&rec.Scenario,
			&rec.Status,
			&rec.Reason,
			&rec.Message,
			&rec.Currency,
			&rec.Amount,
			&rec.Value,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

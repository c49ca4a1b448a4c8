package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created_at, valuation_date, scenarios, targets, source)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt.UTC(), r.ValuationDate.UTC(), r.Scenarios, r.Targets, r.Source,
	)
	return err
}

func (j *SQLite) RecordResult(r ResultRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO results
		(run_id, target_id, target_type, measure, scenario, status, reason, message, currency, amount, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.TargetID, r.TargetType, r.Measure, r.Scenario,
		r.Status, r.Reason, r.Message, r.Currency, r.Amount, r.Value,
	)
	return err
}

// RecordResults writes rs in one transaction.
func (j *SQLite) RecordResults(rs []ResultRecord) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO results
		(run_id, target_id, target_type, measure, scenario, status, reason, message, currency, amount, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rs {
		if _, err := stmt.Exec(
			r.RunID, r.TargetID, r.TargetType, r.Measure, r.Scenario,
			r.Status, r.Reason, r.Message, r.Currency, r.Amount, r.Value,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

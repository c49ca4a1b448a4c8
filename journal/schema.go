package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	valuation_date DATETIME NOT NULL,
	scenarios INTEGER NOT NULL,
	targets INTEGER NOT NULL,
	source TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	target_id TEXT NOT NULL,
	target_type TEXT NOT NULL,
	measure TEXT NOT NULL,
	scenario INTEGER NOT NULL,
	status TEXT NOT NULL,
	reason TEXT NOT NULL,
	message TEXT NOT NULL,
	currency TEXT NOT NULL,
	amount TEXT,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

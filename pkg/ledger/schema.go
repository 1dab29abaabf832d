// Package ledger persists canonical transactions keyed by identity and
// provides the idempotent batch merge the ingestion pipeline builds on.
package ledger

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Canonical transactions table
-- txn_id is the stable identity derived by the canonicalizer; everything
-- else except the identity tuple is mutable under merge.
CREATE TABLE IF NOT EXISTS transactions (
    txn_id TEXT PRIMARY KEY,
    date TEXT NOT NULL,                -- YYYY-MM-DD
    account_id TEXT NOT NULL,
    amount_cents INTEGER NOT NULL,     -- authoritative amount
    amount REAL NOT NULL,              -- derived decimal view, never compared
    description TEXT NOT NULL,
    merchant_norm TEXT NOT NULL,
    dup_seq INTEGER NOT NULL DEFAULT 0,
    category TEXT,                     -- base category carried from source
    memo TEXT,
    tags TEXT
);

CREATE INDEX IF NOT EXISTS idx_transactions_date
    ON transactions(date);

CREATE INDEX IF NOT EXISTS idx_transactions_account
    ON transactions(account_id);

-- Ingest run history
-- One row per ingestion run with its outcome counters.
CREATE TABLE IF NOT EXISTS ingest_runs (
    run_id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    files_processed INTEGER NOT NULL,
    files_failed INTEGER NOT NULL,
    rows_inserted INTEGER NOT NULL,
    rows_updated INTEGER NOT NULL,
    rows_skipped INTEGER NOT NULL,
    collision_warnings INTEGER NOT NULL,
    ambiguous_overrides INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingest_runs_finished
    ON ingest_runs(finished_at);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}

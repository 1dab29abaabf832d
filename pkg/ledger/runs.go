package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord is one ingestion run's outcome, persisted for run-level
// reporting and audit.
type RunRecord struct {
	RunID              string
	StartedAt          time.Time
	FinishedAt         time.Time
	FilesProcessed     int
	FilesFailed        int
	RowsInserted       int
	RowsUpdated        int
	RowsSkipped        int
	CollisionWarnings  int
	AmbiguousOverrides int
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RunHistory manages the ingest run history table.
type RunHistory struct {
	conn *Connection
}

// NewRunHistory creates a RunHistory instance.
func NewRunHistory(conn *Connection) *RunHistory {
	return &RunHistory{conn: conn}
}

// Record persists one run record.
func (h *RunHistory) Record(rec RunRecord) error {
	query := `
		INSERT INTO ingest_runs
			(run_id, started_at, finished_at, files_processed, files_failed,
			 rows_inserted, rows_updated, rows_skipped,
			 collision_warnings, ambiguous_overrides)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := h.conn.Exec(query,
		rec.RunID,
		rec.StartedAt.UTC().Format(time.RFC3339),
		rec.FinishedAt.UTC().Format(time.RFC3339),
		rec.FilesProcessed,
		rec.FilesFailed,
		rec.RowsInserted,
		rec.RowsUpdated,
		rec.RowsSkipped,
		rec.CollisionWarnings,
		rec.AmbiguousOverrides,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Stats summarizes the ledger and its ingestion history.
type Stats struct {
	TotalTransactions int
	TotalRuns         int
	LastRun           sql.NullString
}

// GetStats returns aggregate statistics.
func (h *RunHistory) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := h.conn.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&stats.TotalTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COUNT(*), MAX(finished_at) FROM ingest_runs`).
		Scan(&stats.TotalRuns, &stats.LastRun)
	if err != nil {
		return nil, fmt.Errorf("failed to read run history: %w", err)
	}

	return stats, nil
}

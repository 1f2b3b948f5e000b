package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for memo records.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	started_at    TIMESTAMP NOT NULL,
	finished_at   TIMESTAMP,
	dry_run       BOOLEAN NOT NULL DEFAULT 0,
	entry_count   INTEGER NOT NULL DEFAULT 0,
	updated_count INTEGER NOT NULL DEFAULT 0,
	skipped_count INTEGER NOT NULL DEFAULT 0,
	error_count   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS memo_records (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id            TEXT NOT NULL REFERENCES runs(id),
	ledger_id         TEXT NOT NULL,
	ledger_date       TIMESTAMP,
	amount_milliunits INTEGER NOT NULL DEFAULT 0,
	order_number      TEXT,
	order_total       TEXT,
	memo              TEXT,
	memo_length       INTEGER NOT NULL DEFAULT 0,
	truncated         BOOLEAN NOT NULL DEFAULT 0,
	ai_summarized     BOOLEAN NOT NULL DEFAULT 0,
	status            TEXT NOT NULL,
	error_message     TEXT,
	processed_at      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_memo_records_ledger ON memo_records(ledger_id);
CREATE INDEX IF NOT EXISTS idx_memo_records_run ON memo_records(run_id);
`

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveRecord saves a memo record
func (s *Storage) SaveRecord(record *MemoRecord) error {
	query := `
	INSERT INTO memo_records
	(run_id, ledger_id, ledger_date, amount_milliunits, order_number,
	 order_total, memo, memo_length, truncated, ai_summarized, status,
	 error_message, processed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		record.RunID,
		record.LedgerID,
		record.LedgerDate,
		record.AmountMilliunits,
		record.OrderNumber,
		record.OrderTotal,
		record.Memo,
		record.MemoLength,
		record.Truncated,
		record.AISummarized,
		record.Status,
		record.ErrorMessage,
		record.ProcessedAt,
	)
	if err != nil {
		return err
	}

	if id, err := result.LastInsertId(); err == nil {
		record.ID = id
	}
	return nil
}

// GetRecord retrieves the most recent record for a ledger entry
func (s *Storage) GetRecord(ledgerID string) (*MemoRecord, error) {
	query := selectRecord + ` WHERE ledger_id = ? ORDER BY processed_at DESC LIMIT 1`

	record, err := scanRecord(s.db.QueryRow(query, ledgerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

// IsAnnotated reports whether a ledger entry already has an applied memo
func (s *Storage) IsAnnotated(ledgerID string) bool {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM memo_records WHERE ledger_id = ? AND status = ?`,
		ledgerID, StatusUpdated,
	).Scan(&count)
	return err == nil && count > 0
}

// ListRecords returns records matching the given filters
func (s *Storage) ListRecords(filters RecordFilters) (*RecordListResult, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filters.RunID != "" {
		where += " AND run_id = ?"
		args = append(args, filters.RunID)
	}
	if filters.Status != "" {
		where += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.DaysBack > 0 {
		where += " AND processed_at >= ?"
		args = append(args, time.Now().AddDate(0, 0, -filters.DaysBack))
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM memo_records"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	query := selectRecord + where + " ORDER BY processed_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, filters.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &RecordListResult{
		Records:    []*MemoRecord{},
		TotalCount: total,
		Limit:      limit,
		Offset:     filters.Offset,
	}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, record)
	}
	return result, rows.Err()
}

// GetStats returns aggregate statistics across all runs
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRow(`
	SELECT COUNT(*),
	       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN truncated THEN 1 ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
	FROM memo_records`,
		StatusUpdated, StatusNoMatch, StatusFailed,
	).Scan(&stats.TotalProcessed, &stats.UpdatedCount, &stats.NoMatchCount,
		&stats.TruncatedCount, &stats.ErrorCount)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// SaveRun inserts or updates a run row
func (s *Storage) SaveRun(run *Run) error {
	query := `
	INSERT OR REPLACE INTO runs
	(id, started_at, finished_at, dry_run, entry_count, updated_count,
	 skipped_count, error_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.DryRun,
		run.EntryCount,
		run.UpdatedCount,
		run.SkippedCount,
		run.ErrorCount,
	)
	return err
}

// GetRun retrieves a run by ID
func (s *Storage) GetRun(id string) (*Run, error) {
	run := &Run{}
	var finished sql.NullTime
	err := s.db.QueryRow(`
	SELECT id, started_at, finished_at, dry_run, entry_count, updated_count,
	       skipped_count, error_count
	FROM runs WHERE id = ?`, id).Scan(
		&run.ID, &run.StartedAt, &finished, &run.DryRun, &run.EntryCount,
		&run.UpdatedCount, &run.SkippedCount, &run.ErrorCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first
func (s *Storage) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
	SELECT id, started_at, finished_at, dry_run, entry_count, updated_count,
	       skipped_count, error_count
	FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var finished sql.NullTime
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &finished, &run.DryRun, &run.EntryCount,
			&run.UpdatedCount, &run.SkippedCount, &run.ErrorCount,
		); err != nil {
			return nil, err
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const selectRecord = `
SELECT id, run_id, ledger_id, ledger_date, amount_milliunits, order_number,
       order_total, memo, memo_length, truncated, ai_summarized, status,
       error_message, processed_at
FROM memo_records`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*MemoRecord, error) {
	record := &MemoRecord{}
	var orderNumber, orderTotal, memo, errorMessage sql.NullString
	err := row.Scan(
		&record.ID,
		&record.RunID,
		&record.LedgerID,
		&record.LedgerDate,
		&record.AmountMilliunits,
		&orderNumber,
		&orderTotal,
		&memo,
		&record.MemoLength,
		&record.Truncated,
		&record.AISummarized,
		&record.Status,
		&errorMessage,
		&record.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	record.OrderNumber = orderNumber.String
	record.OrderTotal = orderTotal.String
	record.Memo = memo.String
	record.ErrorMessage = errorMessage.String
	return record, nil
}

package storage

import "time"

// Record statuses. One row is written per ledger entry per run.
const (
	StatusUpdated          = "updated"
	StatusDryRun           = "dry-run"
	StatusNoMatch          = "no-match"
	StatusAmbiguousSkipped = "ambiguous-skipped"
	StatusDateDeclined     = "date-declined"
	StatusFailed           = "failed"
)

// MemoRecord is the audit trail row for one processed ledger entry.
type MemoRecord struct {
	ID               int64     `json:"id"`
	RunID            string    `json:"run_id"`
	LedgerID         string    `json:"ledger_id"`
	LedgerDate       time.Time `json:"ledger_date"`
	AmountMilliunits int64     `json:"amount_milliunits"`
	OrderNumber      string    `json:"order_number,omitempty"`
	OrderTotal       string    `json:"order_total,omitempty"`
	Memo             string    `json:"memo,omitempty"`
	MemoLength       int       `json:"memo_length"`
	Truncated        bool      `json:"truncated"`
	AISummarized     bool      `json:"ai_summarized"`
	Status           string    `json:"status"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// Run groups the records of one reconciliation pass.
type Run struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	DryRun       bool       `json:"dry_run"`
	EntryCount   int        `json:"entry_count"`
	UpdatedCount int        `json:"updated_count"`
	SkippedCount int        `json:"skipped_count"`
	ErrorCount   int        `json:"error_count"`
}

// Stats holds aggregate statistics across all runs.
type Stats struct {
	TotalProcessed int `json:"total_processed"`
	UpdatedCount   int `json:"updated_count"`
	NoMatchCount   int `json:"no_match_count"`
	TruncatedCount int `json:"truncated_count"`
	ErrorCount     int `json:"error_count"`
}

package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// RecordResponse represents one processed ledger entry in API responses.
type RecordResponse struct {
	ID               int64  `json:"id"`
	RunID            string `json:"run_id"`
	LedgerID         string `json:"ledger_id"`
	LedgerDate       string `json:"ledger_date"`
	AmountMilliunits int64  `json:"amount_milliunits"`
	OrderNumber      string `json:"order_number,omitempty"`
	OrderTotal       string `json:"order_total,omitempty"`
	Memo             string `json:"memo,omitempty"`
	MemoLength       int    `json:"memo_length"`
	Truncated        bool   `json:"truncated"`
	AISummarized     bool   `json:"ai_summarized"`
	Status           string `json:"status"`
	ErrorMessage     string `json:"error_message,omitempty"`
	ProcessedAt      string `json:"processed_at"`
}

// RecordListResponse is returned when listing records.
type RecordListResponse struct {
	Records    []RecordResponse `json:"records"`
	TotalCount int              `json:"total_count"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

// RunResponse represents a reconciliation run in API responses.
type RunResponse struct {
	ID           string `json:"id"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at,omitempty"`
	DryRun       bool   `json:"dry_run"`
	EntryCount   int    `json:"entry_count"`
	UpdatedCount int    `json:"updated_count"`
	SkippedCount int    `json:"skipped_count"`
	ErrorCount   int    `json:"error_count"`
}

// RunListResponse is returned when listing runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	TotalProcessed int `json:"total_processed"`
	UpdatedCount   int `json:"updated_count"`
	NoMatchCount   int `json:"no_match_count"`
	TruncatedCount int `json:"truncated_count"`
	ErrorCount     int `json:"error_count"`
}

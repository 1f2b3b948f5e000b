package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite today, something
// else later) and makes testing with mocks straightforward.
type Repository interface {
	RecordRepository
	RunRepository
	Close() error
}

// RecordRepository handles per-entry memo record operations
type RecordRepository interface {
	// SaveRecord saves a memo record for a processed ledger entry
	SaveRecord(record *MemoRecord) error

	// GetRecord retrieves the latest record for a ledger entry
	GetRecord(ledgerID string) (*MemoRecord, error)

	// ListRecords returns records matching the given filters
	ListRecords(filters RecordFilters) (*RecordListResult, error)

	// IsAnnotated reports whether a ledger entry already has a
	// successfully applied (non-dry-run) memo
	IsAnnotated(ledgerID string) bool

	// GetStats returns aggregate statistics
	GetStats() (*Stats, error)
}

// RunRepository handles run bookkeeping
type RunRepository interface {
	// SaveRun inserts or updates a run row
	SaveRun(run *Run) error

	// GetRun retrieves a run by ID
	GetRun(id string) (*Run, error)

	// ListRuns returns the most recent runs, newest first
	ListRuns(limit int) ([]*Run, error)
}

// RecordFilters defines filters for listing memo records
type RecordFilters struct {
	RunID    string // Filter by run (empty = all)
	Status   string // Filter by outcome status (empty = all)
	DaysBack int    // How many days back to look (0 = all time)
	Limit    int    // Max results (0 = default 50)
	Offset   int    // Pagination offset
}

// RecordListResult contains paginated record results
type RecordListResult struct {
	Records    []*MemoRecord `json:"records"`
	TotalCount int           `json:"total_count"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
}

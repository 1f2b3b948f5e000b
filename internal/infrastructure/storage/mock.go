package storage

import (
	"sort"
	"sync"
	"time"
)

// MockRepository is an in-memory Repository for tests and the API handlers'
// unit tests. Not used in production.
type MockRepository struct {
	mu      sync.Mutex
	nextID  int64
	records []*MemoRecord
	runs    map[string]*Run
}

var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty in-memory repository
func NewMockRepository() *MockRepository {
	return &MockRepository{runs: make(map[string]*Run)}
}

func (m *MockRepository) SaveRecord(record *MemoRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	m.records = append(m.records, record)
	return nil
}

func (m *MockRepository) GetRecord(ledgerID string) (*MemoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *MemoRecord
	for _, r := range m.records {
		if r.LedgerID == ledgerID && (latest == nil || r.ProcessedAt.After(latest.ProcessedAt)) {
			latest = r
		}
	}
	return latest, nil
}

func (m *MockRepository) IsAnnotated(ledgerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.LedgerID == ledgerID && r.Status == StatusUpdated {
			return true
		}
	}
	return false
}

func (m *MockRepository) ListRecords(filters RecordFilters) (*RecordListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*MemoRecord
	cutoff := time.Time{}
	if filters.DaysBack > 0 {
		cutoff = time.Now().AddDate(0, 0, -filters.DaysBack)
	}
	for _, r := range m.records {
		if filters.RunID != "" && r.RunID != filters.RunID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if !cutoff.IsZero() && r.ProcessedAt.Before(cutoff) {
			continue
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ProcessedAt.After(matched[j].ProcessedAt)
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	total := len(matched)
	if filters.Offset < len(matched) {
		matched = matched[filters.Offset:]
	} else {
		matched = nil
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	if matched == nil {
		matched = []*MemoRecord{}
	}

	return &RecordListResult{
		Records:    matched,
		TotalCount: total,
		Limit:      limit,
		Offset:     filters.Offset,
	}, nil
}

func (m *MockRepository) GetStats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &Stats{TotalProcessed: len(m.records)}
	for _, r := range m.records {
		switch r.Status {
		case StatusUpdated:
			stats.UpdatedCount++
		case StatusNoMatch:
			stats.NoMatchCount++
		case StatusFailed:
			stats.ErrorCount++
		}
		if r.Truncated {
			stats.TruncatedCount++
		}
	}
	return stats, nil
}

func (m *MockRepository) SaveRun(run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}

func (m *MockRepository) GetRun(id string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs[id], nil
}

func (m *MockRepository) ListRuns(limit int) ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	runs := make([]*Run, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MockRepository) Close() error { return nil }

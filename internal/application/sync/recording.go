package sync

import (
	"time"

	"github.com/ynamazon/ynamazon-go/internal/domain/model"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/storage"
)

// startRun inserts the run row before any entry is processed. Entry
// records reference the run by foreign key, so the parent row has to be
// in place before the first SaveRecord.
func (o *Orchestrator) startRun(runID string, startedAt time.Time, dryRun bool) {
	if o.repo == nil {
		return
	}
	run := &storage.Run{
		ID:        runID,
		StartedAt: startedAt,
		DryRun:    dryRun,
	}
	if err := o.repo.SaveRun(run); err != nil {
		o.logger.Warn("Failed to record run start", "run_id", runID, "error", err)
	}
}

// recordEntry persists one entry outcome. Recording failures are logged
// and swallowed; the run itself must not fail because bookkeeping did.
func (o *Orchestrator) recordEntry(runID string, entry *model.LedgerTransaction, er EntryResult) {
	if o.repo == nil || er.Outcome == OutcomeAlreadyDone {
		return
	}

	record := &storage.MemoRecord{
		RunID:            runID,
		LedgerID:         entry.ID,
		LedgerDate:       entry.Date,
		AmountMilliunits: int64(entry.Amount),
		OrderNumber:      er.OrderNumber,
		OrderTotal:       er.OrderTotal,
		Memo:             er.Memo,
		MemoLength:       len([]rune(er.Memo)),
		Truncated:        er.Truncated,
		AISummarized:     er.AISummarized,
		Status:           statusFor(er.Outcome),
		ProcessedAt:      time.Now(),
	}
	if er.Err != nil {
		record.ErrorMessage = er.Err.Error()
	}

	if err := o.repo.SaveRecord(record); err != nil {
		o.logger.Warn("Failed to record entry outcome",
			"ledger_id", entry.ID,
			"error", err,
		)
	}
}

func (o *Orchestrator) recordRun(result *Result, startedAt time.Time, dryRun bool, entryCount int) {
	if o.repo == nil {
		return
	}

	finishedAt := time.Now()
	run := &storage.Run{
		ID:           result.RunID,
		StartedAt:    startedAt,
		FinishedAt:   &finishedAt,
		DryRun:       dryRun,
		EntryCount:   entryCount,
		UpdatedCount: result.UpdatedCount,
		SkippedCount: result.SkippedCount,
		ErrorCount:   result.ErrorCount,
	}
	if err := o.repo.SaveRun(run); err != nil {
		o.logger.Warn("Failed to record run", "run_id", result.RunID, "error", err)
	}
}

func statusFor(outcome Outcome) string {
	switch outcome {
	case OutcomeUpdated:
		return storage.StatusUpdated
	case OutcomeDryRun:
		return storage.StatusDryRun
	case OutcomeNoMatch:
		return storage.StatusNoMatch
	case OutcomeAmbiguousSkipped:
		return storage.StatusAmbiguousSkipped
	case OutcomeDateDeclined:
		return storage.StatusDateDeclined
	default:
		return storage.StatusFailed
	}
}

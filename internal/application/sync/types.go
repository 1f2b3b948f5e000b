// Package sync orchestrates one reconciliation run: fetch ledger
// entries that need memos, fetch purchase history, match them by exact
// amount, and write bounded-length memos back to the budgeting service.
package sync

import (
	"context"
	"log/slog"

	"github.com/ynamazon/ynamazon-go/internal/adapters/amazon"
	"github.com/ynamazon/ynamazon-go/internal/domain/model"
	"github.com/ynamazon/ynamazon-go/internal/domain/summarizer"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/storage"
)

// LedgerService is the budgeting-service surface the orchestrator
// needs. Implemented by the ynab adapter.
type LedgerService interface {
	TransactionsForPayee(payeeID string) ([]*model.LedgerTransaction, error)
	ApplyMemoAndPayee(ctx context.Context, transactionID, memo, payeeID string) error
}

// Outcome classifies how processing one ledger entry ended.
type Outcome string

const (
	OutcomeUpdated          Outcome = "updated"
	OutcomeDryRun           Outcome = "dry-run"
	OutcomeNoMatch          Outcome = "no-match"
	OutcomeAmbiguousSkipped Outcome = "ambiguous-skipped"
	OutcomeDateDeclined     Outcome = "date-declined"
	OutcomeAlreadyDone      Outcome = "already-done"
	OutcomeFailed           Outcome = "failed"
)

// EntryResult records the outcome for one ledger entry.
type EntryResult struct {
	LedgerID     string
	Outcome      Outcome
	OrderNumber  string
	OrderTotal   string
	Memo         string
	Truncated    bool
	AISummarized bool
	Err          error
}

// Result holds the outcome of a whole run.
type Result struct {
	RunID        string
	Entries      []EntryResult
	UpdatedCount int
	SkippedCount int
	ErrorCount   int
	Errors       []error
}

// Options holds per-run flags
type Options struct {
	DryRun  bool
	Verbose bool
}

// Config holds the resolved settings a run operates under. Payee IDs
// are resolved by the caller before the run starts so that a bad payee
// name fails fast instead of mid-loop.
type Config struct {
	NeedsMemoPayeeID string
	CompletedPayeeID string
	UseLinkStyle     bool
	MaxMemoLength    int
	UseAISummary     bool
	TransactionDays  int
	Years            []int
}

// Orchestrator runs the reconciliation loop. It is strictly
// sequential; the candidate pool has exactly one mutator.
type Orchestrator struct {
	ledger     LedgerService
	source     amazon.Source
	decider    Decider
	summarizer *summarizer.Summarizer
	repo       storage.Repository
	logger     *slog.Logger
	cfg        Config
}

// NewOrchestrator creates an orchestrator. summarizer and repo may be
// nil; AI summaries and run recording are then skipped.
func NewOrchestrator(
	ledger LedgerService,
	source amazon.Source,
	decider Decider,
	sum *summarizer.Summarizer,
	repo storage.Repository,
	logger *slog.Logger,
	cfg Config,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if decider == nil {
		decider = &PolicyDecider{}
	}
	return &Orchestrator{
		ledger:     ledger,
		source:     source,
		decider:    decider,
		summarizer: sum,
		repo:       repo,
		logger:     logger,
		cfg:        cfg,
	}
}

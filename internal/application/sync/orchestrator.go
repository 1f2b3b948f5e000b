package sync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ynamazon/ynamazon-go/internal/adapters/amazon"
	"github.com/ynamazon/ynamazon-go/internal/domain/matcher"
	"github.com/ynamazon/ynamazon-go/internal/domain/memo"
	"github.com/ynamazon/ynamazon-go/internal/domain/model"
	"github.com/ynamazon/ynamazon-go/internal/domain/summarizer"
)

// Run executes one reconciliation pass: fetch both sides, match each
// ledger entry against the candidate pool, and apply memos. A failure
// while processing one entry is recorded and the loop continues;
// failures fetching either side abort the run.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{
		RunID:  uuid.New().String(),
		Errors: make([]error, 0),
	}
	startedAt := time.Now()

	if opts.Verbose {
		o.logger.Info("Starting reconciliation run",
			"run_id", result.RunID,
			"dry_run", opts.DryRun,
			"transaction_days", o.cfg.TransactionDays,
		)
	}

	entries, err := o.ledger.TransactionsForPayee(o.cfg.NeedsMemoPayeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger entries: %w", err)
	}
	if opts.Verbose {
		o.logger.Info("Fetched ledger entries", "count", len(entries))
	}

	years := o.cfg.Years
	if len(years) == 0 {
		years = amazon.FetchYears(time.Now())
	}
	orderList, err := o.source.FetchOrders(ctx, years)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	purchases, err := o.source.FetchTransactions(ctx, o.cfg.TransactionDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase transactions: %w", err)
	}

	// The run row must exist before the first entry record references it.
	o.startRun(result.RunID, startedAt, opts.DryRun)

	candidates := model.JoinOrders(purchases, model.IndexOrders(orderList), o.logger)
	pool := matcher.NewPool(candidates)
	if opts.Verbose {
		o.logger.Info("Built candidate pool",
			"orders", len(orderList),
			"candidates", pool.Size(),
		)
	}

	for _, entry := range entries {
		er := o.processEntry(ctx, entry, pool, opts.DryRun)
		result.Entries = append(result.Entries, er)

		switch er.Outcome {
		case OutcomeUpdated, OutcomeDryRun:
			result.UpdatedCount++
		case OutcomeFailed:
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Errorf("entry %s: %w", entry.ID, er.Err))
		default:
			result.SkippedCount++
		}

		o.recordEntry(result.RunID, entry, er)
	}

	o.recordRun(result, startedAt, opts.DryRun, len(entries))

	o.logger.Info("Run complete",
		"run_id", result.RunID,
		"entries", len(entries),
		"updated", result.UpdatedCount,
		"skipped", result.SkippedCount,
		"errors", result.ErrorCount,
	)
	return result, nil
}

// processEntry walks one ledger entry through the match states. The
// pool is consumed only when a memo is actually applied (or would be,
// under dry-run); every other exit leaves the pool untouched.
func (o *Orchestrator) processEntry(ctx context.Context, entry *model.LedgerTransaction, pool *matcher.Pool, dryRun bool) EntryResult {
	er := EntryResult{LedgerID: entry.ID}

	if o.repo != nil && o.repo.IsAnnotated(entry.ID) {
		o.logger.Debug("Entry already annotated in a previous run", "ledger_id", entry.ID)
		er.Outcome = OutcomeAlreadyDone
		return er
	}

	matches := matcher.FindMatches(entry.Amount, pool.Remaining())

	var match *model.PurchaseTransaction
	switch len(matches) {
	case 0:
		o.logger.Info("No matching purchase",
			"ledger_id", entry.ID,
			"amount", entry.Amount.Dollars(),
			"date", entry.Date.Format("2006-01-02"),
		)
		er.Outcome = OutcomeNoMatch
		return er
	case 1:
		match = matches[0]
	default:
		sorted := make([]*model.PurchaseTransaction, len(matches))
		copy(sorted, matches)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CompletedDate.After(sorted[j].CompletedDate)
		})
		idx := o.decider.SelectCandidate(entry, sorted)
		if idx < 0 || idx >= len(sorted) {
			o.logger.Info("Ambiguous match skipped",
				"ledger_id", entry.ID,
				"candidates", len(sorted),
			)
			er.Outcome = OutcomeAmbiguousSkipped
			return er
		}
		match = sorted[idx]
	}
	er.OrderNumber = match.OrderNumber
	er.OrderTotal = match.GrandTotal.StringFixed(2)

	built, err := memo.Build(match, o.cfg.UseLinkStyle)
	if err != nil {
		er.Outcome = OutcomeFailed
		er.Err = fmt.Errorf("failed to build memo: %w", err)
		return er
	}

	er.AISummarized = o.applySummary(ctx, built, match)
	er.Truncated, er.Memo = memo.Truncate(built, o.cfg.MaxMemoLength)

	if !sameDay(match.CompletedDate, entry.Date) {
		o.logger.Warn("Purchase completed on a different date",
			"ledger_id", entry.ID,
			"ledger_date", entry.Date.Format("2006-01-02"),
			"completed_date", match.CompletedDate.Format("2006-01-02"),
		)
		if !o.decider.ConfirmDateMismatch(entry, match) {
			er.Outcome = OutcomeDateDeclined
			return er
		}
	}

	if dryRun {
		o.logger.Info("Dry run, memo not applied",
			"ledger_id", entry.ID,
			"order_number", match.OrderNumber,
			"memo_length", len([]rune(er.Memo)),
		)
		pool.Consume(match)
		er.Outcome = OutcomeDryRun
		return er
	}

	if err := o.ledger.ApplyMemoAndPayee(ctx, entry.ID, er.Memo, o.cfg.CompletedPayeeID); err != nil {
		er.Outcome = OutcomeFailed
		er.Err = err
		return er
	}

	pool.Consume(match)
	er.Outcome = OutcomeUpdated
	return er
}

// applySummary replaces the memo's item lines with a one-line AI
// summary when one can be produced. Any failure falls back to the
// original item lines; the deterministic truncator still runs either
// way, so the length bound never depends on this path.
func (o *Orchestrator) applySummary(ctx context.Context, m *memo.Memo, match *model.PurchaseTransaction) bool {
	if !o.cfg.UseAISummary || o.summarizer == nil || match.Order == nil {
		return false
	}

	req := summarizer.Request{
		OrderURL:         match.Order.OrderDetailsLink,
		TransactionTotal: match.GrandTotal.StringFixed(2),
		UseLinkStyle:     o.cfg.UseLinkStyle,
		MaxLength:        o.cfg.MaxMemoLength,
	}
	for _, item := range match.Order.Items {
		req.ItemTitles = append(req.ItemTitles, item.Title)
	}
	if !match.GrandTotal.Equal(match.Order.GrandTotal) {
		req.OrderTotal = match.Order.GrandTotal.StringFixed(2)
	}

	summary, err := o.summarizer.Summarize(ctx, req)
	if err != nil {
		o.logger.Debug("Summary unavailable, using item list",
			"order_number", match.OrderNumber,
			"error", err,
		)
		return false
	}

	m.ItemLines = []memo.ItemLine{{Index: 0, Text: summary}}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

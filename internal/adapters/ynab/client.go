// Package ynab wraps the YNAB API client with the small surface the
// reconciler needs: resolving payees by name, listing a payee's
// transactions as ledger entries, and writing memos back.
//
// Example usage:
//
//	client := ynab.NewClient(cfg.YNAB, logger)
//	payee, err := client.FindPayee("Amazon - Needs Memo")
//	entries, err := client.TransactionsForPayee(payee.ID)
//	err = client.ApplyMemo(ctx, entries[0].ID, "- Widget\nOrder #123")
package ynab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	retry "github.com/avast/retry-go"
	ynabapi "github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/payee"
	"github.com/brunomvsouza/ynab.go/api/transaction"

	"github.com/ynamazon/ynamazon-go/internal/domain/model"
	"github.com/ynamazon/ynamazon-go/internal/domain/money"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/config"
)

// ErrPayeeNotFound is returned when no payee matches the configured name.
var ErrPayeeNotFound = errors.New("payee not found")

const (
	retryAttempts = 3
	retryDelay    = 500 * time.Millisecond
)

// PayeeAPI is the payee endpoint surface used by Client.
// Satisfied by *payee.Service.
type PayeeAPI interface {
	GetPayees(budgetID string, f *api.Filter) (*payee.SearchResultSnapshot, error)
}

// TransactionAPI is the transaction endpoint surface used by Client.
// Satisfied by *transaction.Service.
type TransactionAPI interface {
	GetTransactionsByPayee(budgetID, payeeID string, f *transaction.Filter) ([]*transaction.Hybrid, error)
	UpdateTransaction(budgetID, transactionID string, p transaction.PayloadTransaction) (*transaction.Transaction, error)
}

// Client wraps the YNAB API for a single budget.
type Client struct {
	payees       PayeeAPI
	transactions TransactionAPI
	budgetID     string
	logger       *slog.Logger

	mu     sync.Mutex
	hybrid map[string]*transaction.Hybrid // by transaction ID, filled on fetch
}

// NewClient creates a YNAB client for the budget in cfg
func NewClient(cfg config.YNABConfig, logger *slog.Logger) *Client {
	c := ynabapi.NewClient(cfg.APIKey)
	return NewClientWithAPI(c.Payee(), c.Transaction(), cfg.BudgetID, logger)
}

// NewClientWithAPI creates a client over explicit endpoint services.
// Tests use it to inject fakes.
func NewClientWithAPI(payees PayeeAPI, transactions TransactionAPI, budgetID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		payees:       payees,
		transactions: transactions,
		budgetID:     budgetID,
		logger:       logger.With(slog.String("adapter", "ynab")),
		hybrid:       make(map[string]*transaction.Hybrid),
	}
}

// FindPayee resolves a payee by exact name, case-insensitively.
// Deleted payees are ignored.
func (c *Client) FindPayee(name string) (*payee.Payee, error) {
	var snapshot *payee.SearchResultSnapshot
	err := retry.Do(
		func() error {
			var err error
			snapshot, err = c.payees.GetPayees(c.budgetID, nil)
			return err
		},
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payees: %w", err)
	}

	for _, p := range snapshot.Payees {
		if p.Deleted {
			continue
		}
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrPayeeNotFound, name)
}

// TransactionsForPayee returns the payee's non-deleted transactions as
// ledger entries, caching the raw API rows so ApplyMemo can rebuild a
// full update payload later.
func (c *Client) TransactionsForPayee(payeeID string) ([]*model.LedgerTransaction, error) {
	var hybrids []*transaction.Hybrid
	err := retry.Do(
		func() error {
			var err error
			hybrids, err = c.transactions.GetTransactionsByPayee(c.budgetID, payeeID, nil)
			return err
		},
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for payee %s: %w", payeeID, err)
	}

	entries := make([]*model.LedgerTransaction, 0, len(hybrids))
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range hybrids {
		if h.Deleted {
			continue
		}
		c.hybrid[h.ID] = h

		entry := &model.LedgerTransaction{
			ID:     h.ID,
			Date:   h.Date.Time,
			Amount: money.Milliunits(h.Amount),
		}
		if h.Memo != nil {
			entry.Memo = *h.Memo
		}
		if h.PayeeID != nil {
			entry.PayeeID = *h.PayeeID
		}
		entries = append(entries, entry)
	}

	c.logger.Debug("fetched ledger entries",
		slog.String("payee_id", payeeID),
		slog.Int("count", len(entries)))
	return entries, nil
}

// ApplyMemo writes a memo onto a previously fetched transaction. The
// update endpoint requires a full payload, so the cached row supplies
// the fields that stay unchanged. Updates are never retried; a partial
// failure must surface rather than risk a double write.
func (c *Client) ApplyMemo(ctx context.Context, transactionID, memo string) error {
	return c.update(ctx, transactionID, memo, nil)
}

// ApplyMemoAndPayee writes a memo and reassigns the transaction to a
// new payee in a single update.
func (c *Client) ApplyMemoAndPayee(ctx context.Context, transactionID, memo, payeeID string) error {
	return c.update(ctx, transactionID, memo, &payeeID)
}

func (c *Client) update(ctx context.Context, transactionID, memo string, payeeID *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	h, ok := c.hybrid[transactionID]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("transaction %s was not fetched in this session", transactionID)
	}

	p := transaction.PayloadTransaction{
		AccountID:  h.AccountID,
		Date:       h.Date,
		Amount:     h.Amount,
		Cleared:    h.Cleared,
		Approved:   h.Approved,
		PayeeID:    h.PayeeID,
		CategoryID: h.CategoryID,
		FlagColor:  h.FlagColor,
		ImportID:   h.ImportID,
		Memo:       &memo,
	}
	if payeeID != nil {
		p.PayeeID = payeeID
	}

	updated, err := c.transactions.UpdateTransaction(c.budgetID, transactionID, p)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}

	c.logger.Info("memo applied",
		slog.String("transaction_id", updated.ID),
		slog.Int("memo_length", len([]rune(memo))))
	return nil
}

package ynab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/payee"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynamazon/ynamazon-go/internal/domain/money"
)

type fakePayeeAPI struct {
	payees []*payee.Payee
	err    error
	calls  int
}

func (f *fakePayeeAPI) GetPayees(budgetID string, _ *api.Filter) (*payee.SearchResultSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &payee.SearchResultSnapshot{Payees: f.payees}, nil
}

type fakeTransactionAPI struct {
	hybrids  []*transaction.Hybrid
	fetchErr error

	updated    map[string]transaction.PayloadTransaction
	updateErr  error
	fetchCalls int
}

func (f *fakeTransactionAPI) GetTransactionsByPayee(budgetID, payeeID string, _ *transaction.Filter) ([]*transaction.Hybrid, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.hybrids, nil
}

func (f *fakeTransactionAPI) UpdateTransaction(budgetID, transactionID string, p transaction.PayloadTransaction) (*transaction.Transaction, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updated == nil {
		f.updated = make(map[string]transaction.PayloadTransaction)
	}
	f.updated[transactionID] = p
	return &transaction.Transaction{ID: transactionID}, nil
}

func strPtr(s string) *string { return &s }

func hybridFixture(id string, amount int64) *transaction.Hybrid {
	date, _ := api.DateFromString("2024-06-15")
	return &transaction.Hybrid{
		ID:        id,
		Date:      date,
		Amount:    amount,
		Cleared:   transaction.ClearingStatusCleared,
		Approved:  true,
		AccountID: "account-1",
		PayeeID:   strPtr("payee-1"),
	}
}

func TestFindPayee(t *testing.T) {
	payees := &fakePayeeAPI{payees: []*payee.Payee{
		{ID: "p1", Name: "Grocery Store"},
		{ID: "p2", Name: "Amazon - Needs Memo"},
		{ID: "p3", Name: "Amazon", Deleted: true},
	}}
	client := NewClientWithAPI(payees, &fakeTransactionAPI{}, "budget-1", nil)

	found, err := client.FindPayee("amazon - needs memo")
	require.NoError(t, err)
	assert.Equal(t, "p2", found.ID)

	_, err = client.FindPayee("Amazon")
	assert.ErrorIs(t, err, ErrPayeeNotFound)
}

func TestFindPayee_RetriesOnError(t *testing.T) {
	payees := &fakePayeeAPI{err: errors.New("rate limited")}
	client := NewClientWithAPI(payees, &fakeTransactionAPI{}, "budget-1", nil)

	_, err := client.FindPayee("Amazon")
	require.Error(t, err)
	assert.Equal(t, retryAttempts, payees.calls)
}

func TestTransactionsForPayee(t *testing.T) {
	withMemo := hybridFixture("tx-1", -23450)
	withMemo.Memo = strPtr("old memo")
	deleted := hybridFixture("tx-2", -5000)
	deleted.Deleted = true

	txAPI := &fakeTransactionAPI{hybrids: []*transaction.Hybrid{withMemo, deleted, hybridFixture("tx-3", -9990)}}
	client := NewClientWithAPI(&fakePayeeAPI{}, txAPI, "budget-1", nil)

	entries, err := client.TransactionsForPayee("payee-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "tx-1", entries[0].ID)
	assert.Equal(t, money.Milliunits(-23450), entries[0].Amount)
	assert.Equal(t, "old memo", entries[0].Memo)
	assert.Equal(t, "payee-1", entries[0].PayeeID)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), entries[0].Date)
	assert.Equal(t, "tx-3", entries[1].ID)
}

func TestApplyMemo(t *testing.T) {
	txAPI := &fakeTransactionAPI{hybrids: []*transaction.Hybrid{hybridFixture("tx-1", -23450)}}
	client := NewClientWithAPI(&fakePayeeAPI{}, txAPI, "budget-1", nil)

	_, err := client.TransactionsForPayee("payee-1")
	require.NoError(t, err)

	require.NoError(t, client.ApplyMemo(context.Background(), "tx-1", "- Widget\nOrder #123"))

	p, ok := txAPI.updated["tx-1"]
	require.True(t, ok)
	require.NotNil(t, p.Memo)
	assert.Equal(t, "- Widget\nOrder #123", *p.Memo)
	assert.Equal(t, "account-1", p.AccountID)
	assert.Equal(t, int64(-23450), p.Amount)
	assert.Equal(t, transaction.ClearingStatusCleared, p.Cleared)
	require.NotNil(t, p.PayeeID)
	assert.Equal(t, "payee-1", *p.PayeeID)
}

func TestApplyMemoAndPayee(t *testing.T) {
	txAPI := &fakeTransactionAPI{hybrids: []*transaction.Hybrid{hybridFixture("tx-1", -23450)}}
	client := NewClientWithAPI(&fakePayeeAPI{}, txAPI, "budget-1", nil)

	_, err := client.TransactionsForPayee("payee-1")
	require.NoError(t, err)

	require.NoError(t, client.ApplyMemoAndPayee(context.Background(), "tx-1", "memo", "payee-done"))

	p := txAPI.updated["tx-1"]
	require.NotNil(t, p.PayeeID)
	assert.Equal(t, "payee-done", *p.PayeeID)
}

func TestApplyMemo_UnknownTransaction(t *testing.T) {
	client := NewClientWithAPI(&fakePayeeAPI{}, &fakeTransactionAPI{}, "budget-1", nil)

	err := client.ApplyMemo(context.Background(), "tx-unknown", "memo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not fetched")
}

func TestApplyMemo_CancelledContext(t *testing.T) {
	txAPI := &fakeTransactionAPI{hybrids: []*transaction.Hybrid{hybridFixture("tx-1", -23450)}}
	client := NewClientWithAPI(&fakePayeeAPI{}, txAPI, "budget-1", nil)
	_, err := client.TransactionsForPayee("payee-1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = client.ApplyMemo(ctx, "tx-1", "memo")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, txAPI.updated)
}

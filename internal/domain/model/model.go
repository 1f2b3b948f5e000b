// Package model holds the normalized in-memory records the reconciliation
// pipeline works on: purchase orders and transactions fetched from the
// e-commerce account, and ledger transactions fetched from the budgeting
// service. All records are read-only snapshots taken once per run.
package model

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ynamazon/ynamazon-go/internal/domain/money"
)

// Item is a single purchased item within an order. Immutable once built
// from source data.
type Item struct {
	Title     string
	Link      string
	Price     *decimal.Decimal
	Quantity  int
	Condition string
	Seller    string
}

// Rendered returns the item's display form: the plain title, or a
// markdown link when link-style formatting is requested.
func (i Item) Rendered(linkStyle bool) string {
	if linkStyle && i.Link != "" {
		return fmt.Sprintf("[%s](%s)", i.Title, i.Link)
	}
	return i.Title
}

// Order is a purchase order. Items keep their order of appearance, which
// carries through to memo numbering.
type Order struct {
	OrderNumber      string
	PlacedDate       time.Time
	GrandTotal       decimal.Decimal
	Items            []Item
	OrderDetailsLink string
	Recipient        string
	PaymentMethod    string
}

// Orders indexes orders by order number for O(1) lookup. Order numbers are
// never reused across different orders within one fetch window.
type Orders map[string]*Order

// IndexOrders builds the order-number index from a fetched order list.
func IndexOrders(list []*Order) Orders {
	orders := make(Orders, len(list))
	for _, o := range list {
		orders[o.OrderNumber] = o
	}
	return orders
}

// PurchaseTransaction is a charge record from the e-commerce account.
// GrandTotal is positive for money charged. Order is set by JoinOrders.
type PurchaseTransaction struct {
	CompletedDate time.Time
	GrandTotal    decimal.Decimal
	OrderNumber   string
	SellerName    string
	Order         *Order
}

// JoinOrders binds each purchase transaction to its order by order number
// and returns the joined subset sorted by completed date, oldest first.
// Transactions whose order is absent from the fetched order set are
// expected under normal operation (pagination window mismatch) and are
// dropped from the candidate pool before matching begins.
func JoinOrders(txs []*PurchaseTransaction, orders Orders, logger *slog.Logger) []*PurchaseTransaction {
	joined := make([]*PurchaseTransaction, 0, len(txs))
	for _, tx := range txs {
		order, ok := orders[tx.OrderNumber]
		if !ok {
			if logger != nil {
				logger.Debug("Dropping transaction with no fetched order",
					"order_number", tx.OrderNumber,
					"completed_date", tx.CompletedDate.Format("2006-01-02"),
					"grand_total", tx.GrandTotal.StringFixed(2),
				)
			}
			continue
		}
		tx.Order = order
		joined = append(joined, tx)
	}
	sort.SliceStable(joined, func(i, j int) bool {
		return joined[i].CompletedDate.Before(joined[j].CompletedDate)
	})
	return joined
}

// LedgerTransaction is an unreconciled budgeting-service entry that needs
// a memo. Amount is negative for money leaving the account.
type LedgerTransaction struct {
	ID      string
	Date    time.Time
	Amount  money.Milliunits
	Memo    string
	PayeeID string
}

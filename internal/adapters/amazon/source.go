// Package amazon provides the purchase-history source for the
// reconciliation pipeline. A Source yields order history and charge
// transactions from an Amazon account export; the shipped
// implementation reads a JSON snapshot file produced by an external
// scraping session.
package amazon

import (
	"context"
	"time"

	"github.com/ynamazon/ynamazon-go/internal/domain/model"
)

// Source fetches purchase history. Implementations must return
// read-only data; the pipeline never mutates fetched orders beyond
// binding transactions to them.
type Source interface {
	// FetchOrders returns full order history for the given years.
	FetchOrders(ctx context.Context, years []int) ([]*model.Order, error)
	// FetchTransactions returns charge transactions completed within
	// the last days days.
	FetchTransactions(ctx context.Context, days int) ([]*model.PurchaseTransaction, error)
}

// FetchYears returns the order-history years worth fetching at the
// given time: the current year, plus the previous one during January
// so that charges settling across the year boundary still find their
// orders.
func FetchYears(now time.Time) []int {
	years := []int{now.Year()}
	if now.Month() == time.January {
		years = append(years, now.Year()-1)
	}
	return years
}

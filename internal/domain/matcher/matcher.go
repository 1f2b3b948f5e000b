// Package matcher finds the purchase transactions that correspond to a
// ledger entry.
//
// Matching is strict: the candidate's grand total must compare exactly
// equal to the negated ledger amount using decimal arithmetic. Date is
// never a match key; a date mismatch is a soft warning handled by the
// orchestrator. When several candidates carry the same amount all of them
// are returned and selection is left to the caller's decision policy.
//
// Example usage:
//
//	pool := matcher.NewPool(candidates)
//	matches := matcher.FindMatches(entry.Amount, pool.Remaining())
//	if len(matches) == 1 {
//		pool.Consume(matches[0])
//	}
package matcher

import (
	"github.com/ynamazon/ynamazon-go/internal/domain/model"
	"github.com/ynamazon/ynamazon-go/internal/domain/money"
)

// FindMatches returns every candidate whose grand total equals the negated
// ledger amount. The ledger amount is negative for money leaving the
// account while purchase totals are positive, so a true match satisfies
// ledger.Amount == -purchase.GrandTotal exactly.
//
// An empty result is not an error; it signals that no purchase transaction
// corresponds to the ledger entry.
func FindMatches(ledgerAmount money.Milliunits, candidates []*model.PurchaseTransaction) []*model.PurchaseTransaction {
	target := ledgerAmount.Neg()

	var matches []*model.PurchaseTransaction
	for _, tx := range candidates {
		if money.Equal(tx.GrandTotal, target) {
			matches = append(matches, tx)
		}
	}
	return matches
}

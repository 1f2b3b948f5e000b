package sync

import (
	"github.com/ynamazon/ynamazon-go/internal/domain/model"
)

// Decider resolves the two situations the matcher cannot decide on its
// own: several candidates sharing the exact amount, and a matched
// purchase whose completion date differs from the ledger entry's date.
// Implementations may block on operator input.
type Decider interface {
	// SelectCandidate picks one of the candidates (sorted most recent
	// first) for the given ledger entry. Returns the candidate index,
	// or -1 to skip the entry and leave every candidate in the pool.
	SelectCandidate(entry *model.LedgerTransaction, candidates []*model.PurchaseTransaction) int
	// ConfirmDateMismatch reports whether to annotate the entry even
	// though the purchase completed on a different date.
	ConfirmDateMismatch(entry *model.LedgerTransaction, match *model.PurchaseTransaction) bool
}

// PolicyDecider is the headless Decider: ambiguous entries are always
// skipped, date mismatches follow a fixed setting.
type PolicyDecider struct {
	AcceptDateMismatch bool
}

var _ Decider = (*PolicyDecider)(nil)

func (p *PolicyDecider) SelectCandidate(_ *model.LedgerTransaction, _ []*model.PurchaseTransaction) int {
	return -1
}

func (p *PolicyDecider) ConfirmDateMismatch(_ *model.LedgerTransaction, _ *model.PurchaseTransaction) bool {
	return p.AcceptDateMismatch
}

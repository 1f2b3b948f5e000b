package matcher

import "github.com/ynamazon/ynamazon-go/internal/domain/model"

// Pool is the working set of not-yet-consumed purchase transactions for a
// single run. Once a candidate is consumed it can never be matched again,
// so two ledger entries cannot claim the same charge.
//
// The pool has exactly one sequential mutator (the orchestrator loop) and
// is not safe for concurrent use.
type Pool struct {
	remaining []*model.PurchaseTransaction
}

// NewPool creates a pool over the given candidates, preserving their order.
func NewPool(candidates []*model.PurchaseTransaction) *Pool {
	remaining := make([]*model.PurchaseTransaction, len(candidates))
	copy(remaining, candidates)
	return &Pool{remaining: remaining}
}

// Remaining returns the candidates still available for matching.
func (p *Pool) Remaining() []*model.PurchaseTransaction {
	return p.remaining
}

// Size returns the number of candidates still in the pool.
func (p *Pool) Size() int {
	return len(p.remaining)
}

// Consume permanently removes a candidate from the pool. Consuming a
// candidate that is not in the pool is a no-op.
func (p *Pool) Consume(tx *model.PurchaseTransaction) {
	for i, candidate := range p.remaining {
		if candidate == tx {
			p.remaining = append(p.remaining[:i], p.remaining[i+1:]...)
			return
		}
	}
}

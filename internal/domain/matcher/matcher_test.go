package matcher

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynamazon/ynamazon-go/internal/domain/model"
	"github.com/ynamazon/ynamazon-go/internal/domain/money"
)

// Helper to create a test purchase transaction
func makePurchase(orderNumber, total string, completed time.Time) *model.PurchaseTransaction {
	return &model.PurchaseTransaction{
		OrderNumber:   orderNumber,
		GrandTotal:    decimal.RequireFromString(total),
		CompletedDate: completed,
	}
}

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestFindMatches_ExactMatch(t *testing.T) {
	candidates := []*model.PurchaseTransaction{
		makePurchase("111-1", "19.99", day),
		makePurchase("111-2", "25.00", day),
	}

	matches := FindMatches(money.Milliunits(-19990), candidates)

	require.Len(t, matches, 1)
	assert.Equal(t, "111-1", matches[0].OrderNumber)
}

func TestFindMatches_SignConvention(t *testing.T) {
	// A positive ledger amount would need a negative purchase total;
	// purchases never have one, so nothing matches.
	candidates := []*model.PurchaseTransaction{
		makePurchase("111-1", "19.99", day),
	}

	assert.Empty(t, FindMatches(money.Milliunits(19990), candidates))
}

func TestFindMatches_NearMissDoesNotMatch(t *testing.T) {
	// 19.991 vs 19.990 differs by a fraction of a cent and must not match.
	candidates := []*model.PurchaseTransaction{
		makePurchase("111-1", "19.991", day),
		makePurchase("111-2", "19.989", day),
		makePurchase("111-3", "20.00", day),
	}

	assert.Empty(t, FindMatches(money.Milliunits(-19990), candidates))
}

func TestFindMatches_TrailingZeroesAreEqual(t *testing.T) {
	candidates := []*model.PurchaseTransaction{
		makePurchase("111-1", "19.990", day),
	}

	matches := FindMatches(money.Milliunits(-19990), candidates)

	require.Len(t, matches, 1)
}

func TestFindMatches_ReturnsAllAmbiguousCandidates(t *testing.T) {
	// Two separate purchases for the same amount: both come back, the
	// decision policy picks one.
	first := makePurchase("111-1", "19.99", day)
	second := makePurchase("111-2", "19.99", day.AddDate(0, 0, 3))
	candidates := []*model.PurchaseTransaction{first, second}

	matches := FindMatches(money.Milliunits(-19990), candidates)

	require.Len(t, matches, 2)
	assert.Same(t, first, matches[0])
	assert.Same(t, second, matches[1])
}

func TestFindMatches_EmptyPool(t *testing.T) {
	assert.Empty(t, FindMatches(money.Milliunits(-19990), nil))
}

func TestPool_ConsumeRemovesCandidate(t *testing.T) {
	first := makePurchase("111-1", "19.99", day)
	second := makePurchase("111-2", "19.99", day)
	pool := NewPool([]*model.PurchaseTransaction{first, second})

	pool.Consume(first)

	// The consumed candidate is never matched again this run.
	matches := FindMatches(money.Milliunits(-19990), pool.Remaining())
	require.Len(t, matches, 1)
	assert.Same(t, second, matches[0])
	assert.Equal(t, 1, pool.Size())

	pool.Consume(second)
	assert.Empty(t, FindMatches(money.Milliunits(-19990), pool.Remaining()))
}

func TestPool_ConsumeUnknownIsNoop(t *testing.T) {
	first := makePurchase("111-1", "19.99", day)
	pool := NewPool([]*model.PurchaseTransaction{first})

	pool.Consume(makePurchase("999-9", "5.00", day))

	assert.Equal(t, 1, pool.Size())
}

func TestPool_DoesNotMutateInput(t *testing.T) {
	first := makePurchase("111-1", "19.99", day)
	second := makePurchase("111-2", "25.00", day)
	input := []*model.PurchaseTransaction{first, second}
	pool := NewPool(input)

	pool.Consume(first)

	assert.Len(t, input, 2)
}

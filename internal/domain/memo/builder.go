package memo

import (
	"errors"
	"fmt"

	"github.com/ynamazon/ynamazon-go/internal/domain/model"
)

// Contract violations: the caller must have joined purchase->order and the
// order must carry a details link before a memo can be built.
var (
	ErrNoOrder     = errors.New("memo: purchase transaction has no joined order")
	ErrNoOrderLink = errors.New("memo: order has no details link")
)

const partialOrderWarning = "-This transaction doesn't represent the entire order. The order total is $%s-"

// Build renders a structured memo for a matched purchase.
//
// When the purchase total differs from the order total (a partial-order
// charge) a fixed-format warning header is prepended with the order total
// to two decimal places. Multiple items get an "Items" header and numbered
// lines in their order of appearance; a single item renders as one bullet.
// The footer is always exactly one order-link line and is never shortened
// by the truncator.
func Build(purchase *model.PurchaseTransaction, useLinkStyle bool) (*Memo, error) {
	order := purchase.Order
	if order == nil {
		return nil, ErrNoOrder
	}
	if order.OrderDetailsLink == "" {
		return nil, ErrNoOrderLink
	}

	m := &Memo{}

	if !purchase.GrandTotal.Equal(order.GrandTotal) {
		m.HeaderLines = append(m.HeaderLines,
			fmt.Sprintf(partialOrderWarning, order.GrandTotal.StringFixed(2)))
	}

	if len(order.Items) > 1 {
		header := "Items"
		if useLinkStyle {
			header = "**Items**"
		}
		m.HeaderLines = append(m.HeaderLines, header)
		for i, item := range order.Items {
			m.ItemLines = append(m.ItemLines, ItemLine{
				Index: i + 1,
				Text:  item.Rendered(useLinkStyle),
			})
		}
	} else if len(order.Items) == 1 {
		m.ItemLines = append(m.ItemLines, ItemLine{
			Index: 0,
			Text:  order.Items[0].Rendered(useLinkStyle),
		})
	}

	label := fmt.Sprintf("Order #%s", order.OrderNumber)
	if useLinkStyle {
		m.FooterLines = []string{fmt.Sprintf("[%s](%s)", label, order.OrderDetailsLink)}
	} else {
		m.FooterLines = []string{label}
	}

	return m, nil
}

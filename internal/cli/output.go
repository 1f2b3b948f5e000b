package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ynamazon/ynamazon-go/internal/application/sync"
	"github.com/ynamazon/ynamazon-go/internal/domain/model"
)

// PrintHeader prints the run header
func PrintHeader(out io.Writer, dryRun bool) {
	mode := "PRODUCTION"
	if dryRun {
		mode = "DRY-RUN"
	}
	fmt.Fprintf(out, "ynamazon sync (%s mode)\n\n", mode)
}

// PrintSyncSummary prints the run result summary
func PrintSyncSummary(out io.Writer, result *sync.Result) {
	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintf(out, "Run %s: Updated=%d Skipped=%d Errors=%d\n",
		result.RunID,
		result.UpdatedCount,
		result.SkippedCount,
		result.ErrorCount)

	if len(result.Errors) > 0 {
		fmt.Fprintln(out, "\nErrors:")
		for _, err := range result.Errors {
			fmt.Fprintf(out, "  - %v\n", err)
		}
	}
}

// PrintLedgerEntries prints fetched ledger entries as a table
func PrintLedgerEntries(out io.Writer, entries []*model.LedgerTransaction) {
	fmt.Fprintf(out, "%-40s %-12s %10s  %s\n", "ID", "DATE", "AMOUNT", "MEMO")
	for _, e := range entries {
		memo := e.Memo
		if len(memo) > 40 {
			memo = memo[:37] + "..."
		}
		fmt.Fprintf(out, "%-40s %-12s %10s  %s\n",
			e.ID, e.Date.Format("2006-01-02"), e.Amount.Dollars(), memo)
	}
	fmt.Fprintf(out, "\n%d entries\n", len(entries))
}

// PrintOrders prints fetched orders with their items
func PrintOrders(out io.Writer, orders []*model.Order) {
	for _, o := range orders {
		fmt.Fprintf(out, "Order %s  placed %s  $%s\n",
			o.OrderNumber, o.PlacedDate.Format("2006-01-02"), o.GrandTotal.StringFixed(2))
		for i, item := range o.Items {
			fmt.Fprintf(out, "  %d. %s\n", i+1, item.Title)
		}
	}
	fmt.Fprintf(out, "\n%d orders\n", len(orders))
}

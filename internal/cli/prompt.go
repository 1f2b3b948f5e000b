package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ynamazon/ynamazon-go/internal/application/sync"
	"github.com/ynamazon/ynamazon-go/internal/domain/model"
)

// ConsoleDecider resolves ambiguous matches and date mismatches by
// prompting the operator. Reads block until a line of input arrives.
type ConsoleDecider struct {
	in  *bufio.Scanner
	out io.Writer
}

var _ sync.Decider = (*ConsoleDecider)(nil)

// NewConsoleDecider creates a decider reading answers from in and
// writing prompts to out
func NewConsoleDecider(in io.Reader, out io.Writer) *ConsoleDecider {
	return &ConsoleDecider{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// SelectCandidate lists the candidates and asks for a pick. Returns -1
// on skip, EOF, or unparseable input.
func (d *ConsoleDecider) SelectCandidate(entry *model.LedgerTransaction, candidates []*model.PurchaseTransaction) int {
	fmt.Fprintf(d.out, "\nMultiple purchases match ledger entry %s (%s on %s):\n",
		entry.ID, entry.Amount.Dollars(), entry.Date.Format("2006-01-02"))
	for i, c := range candidates {
		fmt.Fprintf(d.out, "  %d) order %s, $%s, completed %s\n",
			i+1, c.OrderNumber, c.GrandTotal.StringFixed(2), c.CompletedDate.Format("2006-01-02"))
	}
	fmt.Fprintf(d.out, "Select 1-%d, or s to skip: ", len(candidates))

	answer, ok := d.readLine()
	if !ok || answer == "" || strings.EqualFold(answer, "s") {
		return -1
	}
	pick, err := strconv.Atoi(answer)
	if err != nil || pick < 1 || pick > len(candidates) {
		fmt.Fprintln(d.out, "Invalid selection, skipping.")
		return -1
	}
	return pick - 1
}

// ConfirmDateMismatch asks whether to continue despite the date
// difference. Only an explicit yes continues.
func (d *ConsoleDecider) ConfirmDateMismatch(entry *model.LedgerTransaction, match *model.PurchaseTransaction) bool {
	fmt.Fprintf(d.out, "\nOrder %s completed %s but the ledger entry is dated %s.\nContinue anyway? [y/N]: ",
		match.OrderNumber,
		match.CompletedDate.Format("2006-01-02"),
		entry.Date.Format("2006-01-02"))

	answer, ok := d.readLine()
	if !ok {
		return false
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

func (d *ConsoleDecider) readLine() (string, bool) {
	if !d.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(d.in.Text()), true
}

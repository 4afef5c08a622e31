package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const reportRowFormat = "%-64s\t%8s\t\t%8s\n"

// Report renders the transaction as a human-readable debit/credit table.
// The transaction does not need to balance.
func (t *Transaction) Report() string {
	var b strings.Builder

	b.WriteString("Transaction Report\n")
	b.WriteString("==================\n")
	fmt.Fprintf(&b, reportRowFormat, "Account", "Debits", "Credits")

	for i := range t.lines {
		line := &t.lines[i]
		value := line.amount.Value()
		amount := value.Abs().StringFixed(2)

		if value.Sign() >= 0 {
			fmt.Fprintf(&b, reportRowFormat, line.account.Value(), amount, "")
		} else {
			fmt.Fprintf(&b, reportRowFormat, line.account.Value(), "", amount)
		}
	}

	b.WriteString("\n")
	return b.String()
}

// Summary holds the derived figures of a transaction.
type Summary struct {
	Lines       int
	Balanced    bool
	Discrepancy decimal.Decimal
	Debits      decimal.Decimal
	Credits     decimal.Decimal
}

// Summary computes the transaction's summary figures.
func (t *Transaction) Summary() Summary {
	return Summary{
		Lines:       t.Len(),
		Balanced:    t.IsBalanced(),
		Discrepancy: t.BalanceDiscrepancy(),
		Debits:      t.DebitTotal(),
		Credits:     t.CreditTotal(),
	}
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %d\n", "Lines:", s.Lines)
	fmt.Fprintf(&b, "%-16s %t\n", "In balance?:", s.Balanced)
	fmt.Fprintf(&b, "%-16s %s\n", "Discrepancy:", s.Discrepancy.StringFixed(2))
	fmt.Fprintf(&b, "%-16s %s\n", "Debits:", s.Debits.StringFixed(2))
	fmt.Fprintf(&b, "%-16s %s\n", "Credits:", s.Credits.StringFixed(2))
	return b.String()
}

package models

import (
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/exportable"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/shopspring/decimal"
)

// Transaction is an ordered list of lines that must balance before it can
// be rendered. Balance is checked at render time only, so a transaction may
// be unbalanced while it is being assembled.
type Transaction struct {
	lines []Line
}

// NewTransaction creates an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddLine appends a copy of the line. Later changes to line do not affect
// the transaction.
func (t *Transaction) AddLine(line *Line) {
	t.lines = append(t.lines, *line)
}

// Lines returns copies of the transaction's lines.
func (t *Transaction) Lines() []*Line {
	out := make([]*Line, len(t.lines))
	for i := range t.lines {
		out[i] = t.lines[i].Clone()
	}
	return out
}

// Len returns the number of lines.
func (t *Transaction) Len() int {
	return len(t.lines)
}

// Clone returns an independent copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	lines := make([]Line, len(t.lines))
	copy(lines, t.lines)
	return &Transaction{lines: lines}
}

// =============================================================================
// TOTALS
// =============================================================================

// DebitTotal sums the positive amounts.
func (t *Transaction) DebitTotal() decimal.Decimal {
	return t.total(1)
}

// CreditTotal sums the absolute values of the negative amounts.
func (t *Transaction) CreditTotal() decimal.Decimal {
	return t.total(-1)
}

func (t *Transaction) total(sign int) decimal.Decimal {
	sum := decimal.Zero
	for i := range t.lines {
		if v := t.lines[i].amount.Value(); v.Sign() == sign {
			sum = sum.Add(v)
		}
	}
	return sum.Abs()
}

// BalanceDiscrepancy returns DebitTotal minus CreditTotal. It is positive
// when debits exceed credits and zero when the transaction balances.
func (t *Transaction) BalanceDiscrepancy() decimal.Decimal {
	return t.DebitTotal().Sub(t.CreditTotal())
}

// IsBalanced reports whether debits equal credits.
func (t *Transaction) IsBalanced() bool {
	return t.BalanceDiscrepancy().IsZero()
}

// EnsureBalanced returns an OutOfBalanceError when the transaction does not
// balance.
func (t *Transaction) EnsureBalanced() error {
	if t.IsBalanced() {
		return nil
	}
	return &iiferr.OutOfBalanceError{
		Debits:      t.DebitTotal(),
		Credits:     t.CreditTotal(),
		Discrepancy: t.BalanceDiscrepancy(),
		Report:      t.Report(),
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// Children returns the lines followed by the ENDTRNS row. It fails when the
// transaction does not balance.
func (t *Transaction) Children() ([]exportable.Exportable, error) {
	if err := t.EnsureBalanced(); err != nil {
		return nil, err
	}
	children := make([]exportable.Exportable, 0, len(t.lines)+1)
	for i := range t.lines {
		children = append(children, &t.lines[i])
	}
	return append(children, exportable.TerminationLine{}), nil
}

// Render emits every line in insertion order and the termination row.
func (t *Transaction) Render() (string, error) {
	return exportable.RenderComposite(t)
}

// =============================================================================
// CSV to IIF Converter - Transaction Lines
// =============================================================================
//
// A Line is one ledger entry. The first line of a transaction is the header
// line (TRNS row); every later line is a split (SPL row). Both kinds share
// one struct and one render function that switches on the kind:
//
//   TRNS: DOCNUM TRNSID TRNSTYPE DATE ACCNT NAME CLASS AMOUNT PAYMETH
//         TOPRINT DUEDATE TERMS MEMO
//   SPL:  DOCNUM SPLID  TRNSTYPE DATE ACCNT NAME CLASS AMOUNT PAYMETH MEMO
//
// RULES:
//   - Type, date, account and amount must be set before rendering.
//   - The to-print flag needs a printable type (CHECK, INVOICE, CREDIT MEMO,
//     CASH SALE); due date and terms need a receivable type (BILL, INVOICE).
//   - Once any of those fields is populated the type can no longer change.
//   - A Line holds no references, so copying the struct clones it.
//
// =============================================================================

package models

import (
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/exportable"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
)

// LineKind distinguishes header lines from split lines.
type LineKind uint8

const (
	TransactionLineKind LineKind = iota
	SplitLineKind
)

// Tag returns the row tag for the kind.
func (k LineKind) Tag() string {
	if k == SplitLineKind {
		return exportable.SplitTag
	}
	return exportable.TransactionTag
}

// Line is a single TRNS or SPL row.
type Line struct {
	kind LineKind

	id            TxnIdentifier
	txnType       TxnType
	date          Date
	account       Account
	name          Name
	class         TxnClass
	amount        Amount
	docNumber     DocNumber
	memo          Memo
	paymentMethod PaymentMethod

	// Header line only.
	toPrint BooleanValue
	dueDate Date
	terms   PaymentTerms
}

// NewTransactionLine creates an empty header line.
func NewTransactionLine() *Line {
	return &Line{kind: TransactionLineKind}
}

// NewSplitLine creates an empty split line.
func NewSplitLine() *Line {
	return &Line{kind: SplitLineKind}
}

// Clone returns an independent copy.
func (l *Line) Clone() *Line {
	c := *l
	return &c
}

// =============================================================================
// ACCESSORS
// =============================================================================

func (l *Line) Kind() LineKind { return l.kind }
func (l *Line) ID() TxnIdentifier { return l.id }
func (l *Line) Type() TxnType { return l.txnType }
func (l *Line) Date() Date { return l.date }
func (l *Line) Account() Account { return l.account }
func (l *Line) Name() Name { return l.name }
func (l *Line) Class() TxnClass { return l.class }
func (l *Line) Amount() Amount { return l.amount }
func (l *Line) DocNumber() DocNumber { return l.docNumber }
func (l *Line) Memo() Memo { return l.memo }
func (l *Line) PaymentMethod() PaymentMethod { return l.paymentMethod }
func (l *Line) NeedsToBePrinted() BooleanValue { return l.toPrint }
func (l *Line) DueDate() Date { return l.dueDate }
func (l *Line) Terms() PaymentTerms { return l.terms }

// =============================================================================
// MUTATORS
// =============================================================================

func (l *Line) SetID(id TxnIdentifier) { l.id = id }
func (l *Line) SetDate(d Date) { l.date = d }
func (l *Line) SetAccount(a Account) { l.account = a }
func (l *Line) SetName(n Name) { l.name = n }
func (l *Line) SetClass(c TxnClass) { l.class = c }
func (l *Line) SetAmount(a Amount) { l.amount = a }
func (l *Line) SetDocNumber(n DocNumber) { l.docNumber = n }
func (l *Line) SetMemo(m Memo) { l.memo = m }
func (l *Line) SetPaymentMethod(p PaymentMethod) { l.paymentMethod = p }

// SetType sets the transaction type. Changing the type is rejected once a
// type-specific field is populated; setting the same type again is allowed.
func (l *Line) SetType(t TxnType) error {
	if !t.IsSet() {
		return iiferr.InvalidValue("TxnType", "", "transaction type is required")
	}
	if t != l.txnType && l.hasTypeSpecificFields() {
		return iiferr.IllegalField("TxnType", l.txnType.Code(),
			"the type cannot be changed while type-specific fields are populated")
	}
	l.txnType = t
	return nil
}

// SetNeedsToBePrinted sets the TOPRINT flag. Header lines of printable types
// only.
func (l *Line) SetNeedsToBePrinted(b BooleanValue) error {
	if err := l.requireHeader("TOPRINT"); err != nil {
		return err
	}
	if !l.txnType.IsPrintable() {
		return iiferr.IllegalField("TOPRINT", l.txnType.Code(),
			"only checks, invoices, credit memos and cash sales can be printed")
	}
	l.toPrint = b
	return nil
}

// SetDueDate sets the DUEDATE column. Header lines of receivable types only.
func (l *Line) SetDueDate(d Date) error {
	if err := l.requireHeader("DUEDATE"); err != nil {
		return err
	}
	if !l.txnType.IsReceivable() {
		return iiferr.IllegalField("DUEDATE", l.txnType.Code(),
			"a due date can only be set on a bill or invoice")
	}
	l.dueDate = d
	return nil
}

// SetTerms sets the TERMS column. Header lines of receivable types only.
func (l *Line) SetTerms(t PaymentTerms) error {
	if err := l.requireHeader("TERMS"); err != nil {
		return err
	}
	if !l.txnType.IsReceivable() {
		return iiferr.IllegalField("TERMS", l.txnType.Code(),
			"payment terms can only be set on a bill or invoice")
	}
	l.terms = t
	return nil
}

func (l *Line) requireHeader(field string) error {
	if l.kind != TransactionLineKind {
		return iiferr.IllegalField(field, "", "only allowed on the first line of a transaction")
	}
	return nil
}

func (l *Line) hasTypeSpecificFields() bool {
	return l.toPrint != BooleanEmpty || l.dueDate.IsSet() || !l.terms.IsEmpty()
}

// =============================================================================
// RENDERING
// =============================================================================

// Render emits the row for this line. It fails with a
// MissingRequiredFieldError when type, date, account or amount is unset.
func (l *Line) Render() (string, error) {
	columns := []iifutil.Column{
		l.docNumber,
		l.id,
		l.txnType,
		l.date,
		l.account,
		l.name,
		l.class,
		l.amount,
		l.paymentMethod,
	}

	switch l.kind {
	case TransactionLineKind:
		var due iifutil.Column = iifutil.EmptyColumn
		if l.dueDate.IsSet() {
			due = l.dueDate
		}
		columns = append(columns, l.toPrint, due, l.terms, l.memo)
	case SplitLineKind:
		columns = append(columns, l.memo)
	}

	return iifutil.ExportColumns([]string{l.kind.Tag()}, columns, nil)
}

// =============================================================================
// CSV to IIF Converter - Transaction Builders
// =============================================================================
//
// Builders assemble balanced transactions of a specific kind from a handful
// of business-level inputs:
//
//   GeneralJournal   - free-form debit/credit lines           (GENERAL JOURNAL)
//   CustomerPayment  - payment received against receivables  (PAYMENT)
//   VendorPayment    - check written against payables        (CHECK)
//   VendorBill       - bill entered into payables            (BILL)
//   PaymentDeposit   - undeposited payments taken to the bank (DEPOSIT)
//
// USAGE:
//   Setters are chainable. The first invalid input is remembered and returned
//   by Build, so a chain needs only one error check:
//
//     txn, err := builders.NewCustomerPayment().
//         SetCustomer(contoso).
//         SetAmount(amount).
//         ...
//         Build()
//
//   Every Build verifies the transaction balances before returning it.
//
// =============================================================================

package builders

import (
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"
)

// base carries the first error recorded by a chain of setters.
type base struct {
	err error
}

func (b *base) fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// lineSpec holds the common columns of a line appended by a builder.
type lineSpec struct {
	account models.Account
	amount  models.Amount
	name    models.Name
	memo    models.Memo
	class   models.TxnClass
}

// appendLine adds a line to lines: a header line when lines is empty, a
// split line otherwise.
func appendLine(lines []*models.Line, spec lineSpec) ([]*models.Line, *models.Line) {
	line := models.NewSplitLine()
	if len(lines) == 0 {
		line = models.NewTransactionLine()
	}
	line.SetAccount(spec.account)
	line.SetAmount(spec.amount)
	line.SetName(spec.name)
	line.SetMemo(spec.memo)
	line.SetClass(spec.class)
	return append(lines, line), line
}

// finish stamps type and date on every line, collects them into a
// transaction and checks the balance.
func finish(lines []*models.Line, txnType models.TxnType, date models.Date, stamp func(*models.Line)) (*models.Transaction, error) {
	txn := models.NewTransaction()
	for _, line := range lines {
		if err := line.SetType(txnType); err != nil {
			return nil, err
		}
		line.SetDate(date)
		if stamp != nil {
			stamp(line)
		}
		txn.AddLine(line)
	}
	if err := txn.EnsureBalanced(); err != nil {
		return nil, err
	}
	return txn, nil
}

func required(field string) error {
	return iiferr.InvalidValue(field, "", "value is required")
}

func requireNonNegative(field string, amount models.Amount) error {
	if !amount.IsSet() {
		return required(field)
	}
	if amount.IsCredit() {
		return iiferr.InvalidValue(field, amount.IIF(), "amount cannot be negative")
	}
	return nil
}

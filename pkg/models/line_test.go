package models

import (
	"errors"
	"testing"
	"time"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAccount(t *testing.T, name string) Account {
	t.Helper()
	a, err := NewAccount(name)
	require.NoError(t, err)
	return a
}

func mustAmount(t *testing.T, text string) Amount {
	t.Helper()
	a, err := ParseAmount(text)
	require.NoError(t, err)
	return a
}

func newLine(t *testing.T, kind LineKind, typ TxnType, account, amount string) *Line {
	t.Helper()
	line := NewTransactionLine()
	if kind == SplitLineKind {
		line = NewSplitLine()
	}
	require.NoError(t, line.SetType(typ))
	line.SetDate(NewDate(2014, time.January, 6))
	line.SetAccount(mustAccount(t, account))
	line.SetAmount(mustAmount(t, amount))
	return line
}

func TestLineRender(t *testing.T) {
	t.Run("transaction line", func(t *testing.T) {
		line := newLine(t, TransactionLineKind, TxnGeneralJournal, "Accounts Receivable", "34.68")
		docNum, _ := NewDocNumber("GJ-1")
		line.SetDocNumber(docNum)

		got, err := line.Render()
		require.NoError(t, err)
		assert.Equal(t,
			"TRNS\t\"GJ-1\"\t\"\"\t\"GENERAL JOURNAL\"\t\"1/6/2014\"\t\"Accounts Receivable\"\t\"\"\t\"\"\t34.68\t\"\"\t\t\t\"\"\t\"\"",
			got)
	})

	t.Run("split line", func(t *testing.T) {
		line := newLine(t, SplitLineKind, TxnGeneralJournal, "Sales Income", "-34.68")
		memo, _ := NewMemo(`He said "hi"`)
		line.SetMemo(memo)

		got, err := line.Render()
		require.NoError(t, err)
		assert.Equal(t,
			"SPL\t\"\"\t\"\"\t\"GENERAL JOURNAL\"\t\"1/6/2014\"\t\"Sales Income\"\t\"\"\t\"\"\t-34.68\t\"\"\t\"He said \\\"hi\\\"\"",
			got)
	})

	t.Run("header-only columns", func(t *testing.T) {
		line := newLine(t, TransactionLineKind, TxnInvoice, "Accounts Receivable", "100")
		require.NoError(t, line.SetNeedsToBePrinted(BooleanTrue))
		require.NoError(t, line.SetDueDate(NewDate(2014, time.February, 5)))
		require.NoError(t, line.SetTerms(TermsNet30))

		got, err := line.Render()
		require.NoError(t, err)
		assert.Contains(t, got, "100.00\t\"\"\tY\t\"2/5/2014\"\t\"Net 30\"\t\"\"")
	})
}

func TestLineRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *Line)
		column int
	}{
		{"type", func(l *Line) { l.txnType = 0 }, 3},
		{"date", func(l *Line) { l.date = Date{} }, 4},
		{"account", func(l *Line) { l.account = Account{} }, 5},
		{"amount", func(l *Line) { l.amount = Amount{} }, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := newLine(t, SplitLineKind, TxnGeneralJournal, "Cash", "1")
			tt.mutate(line)

			_, err := line.Render()
			var missing *iiferr.MissingRequiredFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.column, missing.Column)
			assert.Equal(t, "SPL", missing.RowKind)
		})
	}

	_, err := NewTransactionLine().Render()
	assert.ErrorIs(t, err, iiferr.ErrMissingRequiredField)
}

func TestLineTypeRestrictions(t *testing.T) {
	t.Run("to-print requires printable type", func(t *testing.T) {
		line := newLine(t, TransactionLineKind, TxnGeneralJournal, "Cash", "1")
		assert.ErrorIs(t, line.SetNeedsToBePrinted(BooleanTrue), iiferr.ErrIllegalField)

		for _, typ := range []TxnType{TxnCheck, TxnInvoice, TxnCreditMemo, TxnCashSale} {
			line := newLine(t, TransactionLineKind, typ, "Cash", "1")
			assert.NoError(t, line.SetNeedsToBePrinted(BooleanFalse), typ.Code())
		}
	})

	t.Run("due date and terms require receivable type", func(t *testing.T) {
		line := newLine(t, TransactionLineKind, TxnCheck, "Cash", "1")
		assert.ErrorIs(t, line.SetDueDate(NewDate(2014, time.March, 1)), iiferr.ErrIllegalField)
		assert.ErrorIs(t, line.SetTerms(TermsNet15), iiferr.ErrIllegalField)

		bill := newLine(t, TransactionLineKind, TxnBill, "Accounts Payable", "-1")
		assert.NoError(t, bill.SetDueDate(NewDate(2014, time.March, 1)))
		assert.NoError(t, bill.SetTerms(TermsNet15))
	})

	t.Run("split lines reject header-only fields", func(t *testing.T) {
		line := newLine(t, SplitLineKind, TxnInvoice, "Cash", "1")
		assert.ErrorIs(t, line.SetNeedsToBePrinted(BooleanTrue), iiferr.ErrIllegalField)
		assert.ErrorIs(t, line.SetTerms(TermsNet7), iiferr.ErrIllegalField)
	})

	t.Run("type change rejected after type-specific field", func(t *testing.T) {
		line := newLine(t, TransactionLineKind, TxnCheck, "Cash", "1")
		require.NoError(t, line.SetNeedsToBePrinted(BooleanTrue))

		assert.NoError(t, line.SetType(TxnCheck))
		err := line.SetType(TxnInvoice)
		assert.ErrorIs(t, err, iiferr.ErrIllegalField)
		assert.Equal(t, TxnCheck, line.Type())
	})

	t.Run("type change allowed before type-specific fields", func(t *testing.T) {
		line := newLine(t, TransactionLineKind, TxnCheck, "Cash", "1")
		assert.NoError(t, line.SetType(TxnDeposit))
		assert.ErrorIs(t, line.SetType(TxnType(0)), iiferr.ErrInvalidValue)
	})
}

func TestLineClone(t *testing.T) {
	line := newLine(t, SplitLineKind, TxnGeneralJournal, "Cash", "5")
	clone := line.Clone()
	line.SetAccount(mustAccount(t, "Other"))

	assert.Equal(t, "Cash", clone.Account().Value())
	assert.Equal(t, SplitLineKind, clone.Kind())
}

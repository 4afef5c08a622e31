package models

import (
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringValues(t *testing.T) {
	t.Run("memo escapes embedded quotes", func(t *testing.T) {
		memo, err := NewMemo(`He said "hi"`)
		require.NoError(t, err)
		assert.Equal(t, `"He said \"hi\""`, memo.IIF())
		assert.Equal(t, `He said "hi"`, memo.Value())
	})

	t.Run("empty sentinels render as empty quoted columns", func(t *testing.T) {
		assert.Equal(t, `""`, EmptyMemo.IIF())
		assert.Equal(t, `""`, EmptyName.IIF())
		assert.Equal(t, `""`, EmptyDocNumber.IIF())
		assert.Equal(t, `""`, EmptyTxnClass.IIF())
		assert.True(t, EmptyMemo.IsSet())
		assert.True(t, EmptyMemo.IsEmpty())
	})

	t.Run("constructors reject empty input", func(t *testing.T) {
		_, err := NewAccount("")
		assert.ErrorIs(t, err, iiferr.ErrInvalidValue)
		_, err = NewName("   ")
		assert.ErrorIs(t, err, iiferr.ErrInvalidValue)
		_, err = NewMemo("")
		assert.ErrorIs(t, err, iiferr.ErrInvalidValue)
		_, err = NewPaymentTerms("")
		assert.ErrorIs(t, err, iiferr.ErrInvalidValue)
	})

	t.Run("zero account is unset", func(t *testing.T) {
		assert.False(t, Account{}.IsSet())
		assert.True(t, AccountsPayable.IsSet())
		assert.Equal(t, `"Accounts Receivable"`, AccountsReceivable.IIF())
	})

	t.Run("names compare by value", func(t *testing.T) {
		a, _ := NewName("Acme")
		b, _ := NewName("Acme")
		c, _ := NewName("acme")
		assert.Equal(t, a, b)
		assert.NotEqual(t, a, c)
		assert.True(t, a.Less(c))
	})
}

func TestDocNumber(t *testing.T) {
	n, err := NewDocNumber("123456789012345")
	require.NoError(t, err)
	assert.Equal(t, `"123456789012345"`, n.IIF())

	_, err = NewDocNumber("1234567890123456")
	require.Error(t, err)
	assert.ErrorIs(t, err, iiferr.ErrInvalidValue)
	assert.Contains(t, err.Error(), "15 characters")
}

func TestAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"34.68", "34.68"},
		{"-34.68", "-34.68"},
		{"100", "100.00"},
		{"1,250.5", "1250.50"},
		{" -0.1 ", "-0.10"},
		{"1234567.891", "1234567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.IIF())
			assert.True(t, a.IsSet())
		})
	}

	_, err := ParseAmount("twelve")
	assert.ErrorIs(t, err, iiferr.ErrInvalidValue)
	_, err = ParseAmount("")
	assert.ErrorIs(t, err, iiferr.ErrInvalidValue)

	a := NewAmount(decimal.RequireFromString("12.5"))
	assert.True(t, a.IsDebit())
	assert.True(t, a.Neg().IsCredit())
	assert.Equal(t, "-12.50", a.Neg().IIF())
	assert.False(t, Amount{}.IsSet())
	assert.Equal(t, 0, AmountFromFloat(0).Sign())
}

func TestDate(t *testing.T) {
	d := NewDate(2014, time.January, 6)
	assert.Equal(t, "1/6/2014", d.String())
	assert.Equal(t, `"1/6/2014"`, d.IIF())
	assert.True(t, d.IsSet())
	assert.False(t, Date{}.IsSet())

	parsed, err := ParseDate("12/25/2015")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2015, time.December, 25), parsed)

	parsed, err = ParseDateLayout("2006-01-02", "2015-03-04")
	require.NoError(t, err)
	assert.Equal(t, `"3/4/2015"`, parsed.IIF())

	_, err = ParseDate("2015-03-04")
	assert.ErrorIs(t, err, iiferr.ErrInvalidValue)

	assert.Equal(t, d, DateOf(time.Date(2014, time.January, 6, 18, 30, 0, 0, time.Local)))
}

func TestBooleanValue(t *testing.T) {
	assert.Equal(t, "Y", BooleanTrue.IIF())
	assert.Equal(t, "N", BooleanFalse.IIF())
	assert.Equal(t, "", BooleanEmpty.IIF())
	assert.Equal(t, BooleanTrue, BooleanOf(true))
	assert.Equal(t, BooleanFalse, BooleanOf(false))

	for text, want := range map[string]BooleanValue{"": BooleanEmpty, "Y": BooleanTrue, "yes": BooleanTrue, "FALSE": BooleanFalse, " n ": BooleanFalse} {
		got, err := ParseBooleanValue(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}
	_, err := ParseBooleanValue("maybe")
	assert.ErrorIs(t, err, iiferr.ErrInvalidValue)
}

func TestTxnType(t *testing.T) {
	assert.Equal(t, `"GENERAL JOURNAL"`, TxnGeneralJournal.IIF())
	assert.Equal(t, "CHECK", TxnCheck.Code())
	assert.Equal(t, "PURCHORD", TxnPurchaseOrder.Code())
	assert.False(t, TxnType(0).IsSet())

	for _, input := range []string{"GENERAL JOURNAL", "general_journal", " General Journal "} {
		got, err := ParseTxnType(input)
		require.NoError(t, err, input)
		assert.Equal(t, TxnGeneralJournal, got)
	}

	_, err := ParseTxnType("RECEIPT")
	assert.ErrorIs(t, err, iiferr.ErrInvalidValue)

	assert.True(t, TxnCashSale.IsPrintable())
	assert.False(t, TxnBill.IsPrintable())
	assert.True(t, TxnBill.IsReceivable())
	assert.False(t, TxnCheck.IsReceivable())

	for typ, code := range txnTypeCodes {
		assert.Equal(t, strings.ToUpper(code), code)
		assert.True(t, typ.IsSet())
	}
}

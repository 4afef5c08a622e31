package validation

import (
	"testing"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/types"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(n int, fields map[string]string) types.Row {
	return types.Row{Number: n, Fields: fields}
}

func line(account, amount string) map[string]string {
	return map[string]string{
		config.FieldAccount: account,
		config.FieldDate:    "1/6/2014",
		config.FieldAmount:  amount,
	}
}

func with(fields map[string]string, kv ...string) map[string]string {
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return fields
}

func newValidator(t *testing.T, dept config.DepartmentConfig) *Validator {
	t.Helper()
	v, err := NewValidator(&dept)
	require.NoError(t, err)
	return v
}

func findRule(errs []*ValidationError, rule string) *ValidationError {
	for _, e := range errs {
		if e.Rule == rule {
			return e
		}
	}
	return nil
}

func TestValidTransaction(t *testing.T) {
	v := newValidator(t, config.DepartmentConfig{DefaultTxnType: "CHECK"})
	group := types.Group{Index: 1, Key: "1001", Rows: []types.Row{
		row(2, with(line("Checking", "-100.00"), config.FieldDocNumber, "1001", config.FieldToPrint, "Y", config.FieldName, "Acme")),
		row(3, with(line("Rent Expense", "100"), config.FieldMemo, "January")),
	}}

	checked, errs := v.ValidateTransaction(group)
	assert.Empty(t, errs)
	assert.True(t, checked.Valid)
	assert.Equal(t, models.TxnCheck, checked.Type)
	require.Len(t, checked.Entries, 2)

	header := checked.Entries[0]
	assert.Equal(t, 2, header.RowNumber)
	assert.Equal(t, "Checking", header.Account.Value())
	assert.Equal(t, "-100.00", header.Amount.String())
	assert.Equal(t, models.NewDate(2014, 1, 6), header.Date)
	assert.Equal(t, "1001", header.DocNumber.Value())
	assert.Equal(t, models.BooleanTrue, header.ToPrint)
	assert.Equal(t, "Acme", header.Name.Value())
	assert.True(t, header.Class.IsEmpty())

	assert.Equal(t, "January", checked.Entries[1].Memo.Value())
}

func TestFieldErrors(t *testing.T) {
	v := newValidator(t, config.DepartmentConfig{})

	tests := []struct {
		name   string
		fields map[string]string
		field  string
		rule   string
	}{
		{"missing account", line("", "0"), config.FieldAccount, "required"},
		{"bad amount", line("Cash", "ten"), config.FieldAmount, "data_type"},
		{"bad date", with(line("Cash", "0"), config.FieldDate, "2014-01-06"), config.FieldDate, "data_type"},
		{"unknown type", with(line("Cash", "0"), config.FieldTxnType, "LOAN"), config.FieldTxnType, "enum"},
		{"long doc number", with(line("Cash", "0"), config.FieldDocNumber, "1234567890123456"), config.FieldDocNumber, "max_length"},
		{"bad to print", with(line("Cash", "0"), config.FieldToPrint, "maybe"), config.FieldToPrint, "data_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checked, errs := v.ValidateTransaction(types.Group{Index: 1, Key: "k", Rows: []types.Row{row(2, tt.fields)}})
			assert.False(t, checked.Valid)

			e := findRule(errs, tt.rule)
			require.NotNil(t, e, "expected rule %s in %v", tt.rule, errs)
			assert.Equal(t, tt.field, e.Field)
			assert.Equal(t, 2, e.RowNumber)
			assert.Equal(t, SeverityError, e.Severity)
		})
	}
}

func TestUnderlyingErrorIsExposed(t *testing.T) {
	v := newValidator(t, config.DepartmentConfig{})
	_, errs := v.ValidateTransaction(types.Group{Rows: []types.Row{row(2, line("Cash", "abc"))}})

	e := findRule(errs, "data_type")
	require.NotNil(t, e)
	assert.ErrorIs(t, e, iiferr.ErrInvalidValue)
	assert.Contains(t, e.Error(), "Row 2")
}

func TestTransactionLevel(t *testing.T) {
	v := newValidator(t, config.DepartmentConfig{})

	t.Run("out of balance", func(t *testing.T) {
		checked, errs := v.ValidateTransaction(types.Group{Rows: []types.Row{
			row(2, line("Cash", "10.00")),
			row(3, line("Sales", "-9.99")),
		}})
		assert.False(t, checked.Valid)
		e := findRule(errs, "balance")
		require.NotNil(t, e)
		assert.Equal(t, "0.01", e.Value)
	})

	t.Run("sub-cent imbalance", func(t *testing.T) {
		checked, errs := v.ValidateTransaction(types.Group{Rows: []types.Row{
			row(2, line("Cash", "10.004")),
			row(3, line("Sales", "-10.00")),
		}})
		assert.False(t, checked.Valid)
		e := findRule(errs, "balance")
		require.NotNil(t, e)
		assert.Equal(t, "0.004", e.Value)
	})

	t.Run("balanced but not in cents", func(t *testing.T) {
		checked, errs := v.ValidateTransaction(types.Group{Rows: []types.Row{
			row(2, line("Cash", "0.005")),
			row(3, line("Fees", "0.005")),
			row(4, line("Sales", "-0.01")),
		}})
		assert.False(t, checked.Valid)
		assert.Nil(t, findRule(errs, "balance"))
		e := findRule(errs, "rounding")
		require.NotNil(t, e)
		assert.Equal(t, SeverityError, e.Severity)
		assert.Equal(t, "-0.01", e.Value)
		assert.Contains(t, findRule(errs, "precision").Message, "written as 0.00")
	})

	t.Run("terms on a journal", func(t *testing.T) {
		checked, errs := v.ValidateTransaction(types.Group{Rows: []types.Row{
			row(2, with(line("Cash", "0"), config.FieldTerms, "Net 30")),
		}})
		assert.False(t, checked.Valid)
		assert.NotNil(t, findRule(errs, "type_field"))
	})

	t.Run("terms on a bill", func(t *testing.T) {
		checked, errs := v.ValidateTransaction(types.Group{Rows: []types.Row{
			row(2, with(line("Accounts Payable", "-5"), config.FieldTxnType, "BILL", config.FieldTerms, "Net 30", config.FieldDueDate, "2/5/2014")),
			row(3, with(line("Supplies", "5"), config.FieldTxnType, "BILL")),
		}})
		assert.Empty(t, errs)
		assert.True(t, checked.Valid)
		assert.Equal(t, models.TermsNet30, checked.Entries[0].Terms)
		assert.Equal(t, models.NewDate(2014, 2, 5), checked.Entries[0].DueDate)
	})

	t.Run("warnings only", func(t *testing.T) {
		checked, errs := v.ValidateTransaction(types.Group{Rows: []types.Row{
			row(2, line("Cash", "1.005")),
			row(3, with(line("Sales", "-1.005"), config.FieldTxnType, "DEPOSIT", config.FieldToPrint, "Y")),
		}})
		assert.True(t, checked.Valid)
		assert.NotNil(t, findRule(errs, "precision"))
		assert.NotNil(t, findRule(errs, "consistency"))
		assert.NotNil(t, findRule(errs, "header_only"))
		for _, e := range errs {
			assert.Equal(t, SeverityWarning, e.Severity)
		}
		assert.Equal(t, models.BooleanEmpty, checked.Entries[1].ToPrint)
	})

	t.Run("empty group", func(t *testing.T) {
		checked, errs := v.ValidateTransaction(types.Group{})
		assert.False(t, checked.Valid)
		assert.Len(t, errs, 1)
	})
}

func TestValidateAll(t *testing.T) {
	groups := []types.Group{
		{Index: 1, Key: "a", Rows: []types.Row{row(2, line("Cash", "5")), row(3, line("Sales", "-5"))}},
		{Index: 2, Key: "b", Rows: []types.Row{row(4, line("Cash", "5"))}},
		{Index: 3, Key: "c", Rows: []types.Row{row(5, line("Cash", "0"))}},
	}

	result := newValidator(t, config.DepartmentConfig{}).ValidateAll(groups)
	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 3, result.TransactionsValidated)
	assert.Equal(t, 4, result.RowsValidated)

	valid := result.ValidTransactions()
	require.Len(t, valid, 2)
	assert.Equal(t, "a", valid[0].Group.Key)
	assert.Equal(t, "c", valid[1].Group.Key)

	stop, err := NewValidatorWithOptions(&config.DepartmentConfig{}, ValidationOptions{StopOnFirstError: true})
	require.NoError(t, err)
	result = stop.ValidateAll(groups)
	assert.Len(t, result.Transactions, 2)
}

func TestCustomValidatorsAndWarningsAsErrors(t *testing.T) {
	options := ValidationOptions{
		TreatWarningsAsErrors: true,
		CustomValidators: map[string]CustomValidatorFunc{
			config.FieldClass: func(value string, ctx ValidationContext) string {
				if ctx.IsHeader && value == "" {
					return "class is required on the first line"
				}
				return ""
			},
		},
	}
	v, err := NewValidatorWithOptions(&config.DepartmentConfig{}, options)
	require.NoError(t, err)

	checked, errs := v.ValidateTransaction(types.Group{Rows: []types.Row{row(2, line("Cash", "0"))}})
	assert.False(t, checked.Valid)
	assert.NotNil(t, findRule(errs, "custom"))

	checked, _ = v.ValidateTransaction(types.Group{Rows: []types.Row{row(2, with(line("Cash", "0.001"), config.FieldClass, "Ops"))}})
	assert.False(t, checked.Valid)

	_, err = NewValidator(&config.DepartmentConfig{DefaultTxnType: "LOAN"})
	assert.Error(t, err)
}

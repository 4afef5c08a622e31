package converter

import (
	"testing"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTransformation(t *testing.T) {
	fields := map[string]string{"Type": "CR", "Alt": "fallback"}

	tests := []struct {
		name   string
		value  string
		action config.TransformationAction
		want   string
	}{
		{"prepend", "6000", config.TransformationAction{Type: "prepend_string", Value: "Expenses:"}, "Expenses:6000"},
		{"append", "Rent", config.TransformationAction{Type: "append_string", Value: " Expense"}, "Rent Expense"},
		{"trim", "  x  ", config.TransformationAction{Type: "trim"}, "x"},
		{"trim left chars", "00042", config.TransformationAction{Type: "trim_left", Value: "0"}, "42"},
		{"upper", "acme", config.TransformationAction{Type: "uppercase"}, "ACME"},
		{"whitespace", " a \t b ", config.TransformationAction{Type: "normalize_whitespace"}, "a b"},
		{"replace", "A/R", config.TransformationAction{Type: "replace", Find: "/", Value: " "}, "A R"},
		{"regex", "INV-0042", config.TransformationAction{Type: "regex_replace", Find: `^INV-0*`, Value: ""}, "42"},
		{"substring runes", "Café Ltd", config.TransformationAction{Type: "substring", Value: "0,4"}, "Café"},
		{"pad zeros", "42", config.TransformationAction{Type: "pad_zeros_to_length", Value: "5"}, "00042"},
		{"pad spaces", "ab", config.TransformationAction{Type: "pad_spaces_to_length", Value: "4"}, "ab  "},
		{"truncate", "1234567890123456789", config.TransformationAction{Type: "truncate", Value: "15"}, "123456789012345"},
		{"leading zeros", "000", config.TransformationAction{Type: "remove_leading_zeros"}, "0"},
		{"format date", "2014-01-06", config.TransformationAction{Type: "format_date", Value: "2006-01-02|1/2/2006"}, "1/6/2014"},
		{"strip currency", "$1,234.50", config.TransformationAction{Type: "strip_currency"}, "1234.50"},
		{"accounting negative", "($12.50)", config.TransformationAction{Type: "strip_currency"}, "-12.50"},
		{"negate", "12.50", config.TransformationAction{Type: "negate"}, "-12.5"},
		{"negate empty", "", config.TransformationAction{Type: "negate"}, ""},
		{"format number", "3.14159", config.TransformationAction{Type: "format_number"}, "3.14"},
		{"lookup hit", "100", config.TransformationAction{Type: "lookup", LookupTable: map[string]string{"100": "Checking"}}, "Checking"},
		{"lookup miss", "200", config.TransformationAction{Type: "lookup", LookupTable: map[string]string{"100": "Checking"}}, "200"},
		{"lookup default", "200", config.TransformationAction{Type: "lookup_with_default", Value: "Suspense", LookupTable: map[string]string{}}, "Suspense"},
		{"default if empty", " ", config.TransformationAction{Type: "default_if_empty", Value: "n/a"}, "n/a"},
		{"other field", "", config.TransformationAction{Type: "if_empty_use_field", Value: "Alt"}, "fallback"},
		{"conditional true", "5", config.TransformationAction{
			Type: "conditional", Condition: "Type == 'CR'",
			Then: []config.TransformationAction{{Type: "negate"}},
		}, "-5"},
		{"conditional false", "5", config.TransformationAction{
			Type: "conditional", Condition: "Type != 'CR'",
			Then: []config.TransformationAction{{Type: "negate"}},
		}, "5"},
		{"conditional empty", "5", config.TransformationAction{
			Type: "conditional", Condition: "Missing empty",
			Then: []config.TransformationAction{{Type: "append_string", Value: "!"}},
		}, "5!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyTransformation(tt.value, tt.action, fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyTransformationErrors(t *testing.T) {
	for _, action := range []config.TransformationAction{
		{Type: "explode"},
		{Type: "negate"},
		{Type: "format_date", Value: "2006-01-02|1/2/2006"},
		{Type: "truncate", Value: "zero"},
		{Type: "substring", Value: "1"},
		{Type: "conditional", Condition: "whenever"},
	} {
		t.Run(action.Type, func(t *testing.T) {
			_, err := ApplyTransformation("abc", action, nil)
			assert.Error(t, err)
		})
	}
}

func TestTransformer(t *testing.T) {
	rules := []config.TransformationRule{
		{Field: "Account", Actions: []config.TransformationAction{
			{Type: "trim"},
			{Type: "lookup", LookupTable: map[string]string{"1000": "Checking"}},
		}},
		{Field: "Amount", Actions: []config.TransformationAction{
			{Type: "strip_currency"},
			{Type: "conditional", Condition: "Side == 'C'", Then: []config.TransformationAction{{Type: "negate"}}},
		}},
		{Field: "Missing", Actions: []config.TransformationAction{{Type: "uppercase"}}},
	}

	tr, err := NewTransformer(rules)
	require.NoError(t, err)

	rows := mkRows(map[string]string{"Account": " 1000 ", "Amount": "$5.00", "Side": "C"})
	require.NoError(t, tr.TransformRow(&rows[0]))

	assert.Equal(t, "Checking", rows[0].Get("Account"))
	assert.Equal(t, "-5", rows[0].Get("Amount"))
	assert.NotContains(t, rows[0].Fields, "Missing")

	bad := mkRows(map[string]string{"Amount": "lots", "Side": "C"})
	err = tr.TransformRow(&bad[0])
	assert.ErrorContains(t, err, "row 2")
}

func TestNewTransformerRejectsBadRules(t *testing.T) {
	_, err := NewTransformer([]config.TransformationRule{{Field: "A", Actions: []config.TransformationAction{{Type: "explode"}}}})
	assert.ErrorContains(t, err, "explode")

	_, err = NewTransformer([]config.TransformationRule{{Field: "A", Actions: []config.TransformationAction{{Type: "regex_replace", Find: "("}}}})
	assert.ErrorContains(t, err, "regex")

	_, err = NewTransformer([]config.TransformationRule{{Field: "A", Actions: []config.TransformationAction{
		{Type: "conditional", Condition: "A == 'x'", Then: []config.TransformationAction{{Type: "explode"}}},
	}}})
	assert.Error(t, err)
}

func TestPad(t *testing.T) {
	assert.Equal(t, "007", PadLeft("7", 3, '0'))
	assert.Equal(t, "1234", PadLeft("1234", 3, '0'))
	assert.Equal(t, "é  ", PadRight("é", 3, ' '))
}

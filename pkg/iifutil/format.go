// =============================================================================
// CSV to IIF Converter - Formatting Utilities
// =============================================================================
//
// This package holds the low-level rules of the IIF wire format:
//   - Column escaping (strip outer quotes, backslash-escape inner quotes)
//   - Tab joining of columns and newline joining of rows
//   - Column-count/order enforcement for data rows
//   - Money comparison at two-decimal precision
//
// Nothing in this package knows about transactions or documents; it only
// deals in columns and rows of text.
//
// =============================================================================

package iifutil

import (
	"strings"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/shopspring/decimal"
)

const (
	// ColumnSeparator separates the columns of a row.
	ColumnSeparator = "\t"

	// LineSeparator separates rows. A document also ends with one.
	LineSeparator = "\n"

	// MoneyPlaces is the number of decimal places used for amounts.
	MoneyPlaces = 2
)

// =============================================================================
// COLUMN INTERFACE
// =============================================================================

// Column is a single value that can be placed in an IIF row.
type Column interface {
	// IIF returns the on-wire text of the column.
	IIF() string

	// IsSet reports whether the column holds a value. Optional columns whose
	// "no value" state is an empty sentinel always report true.
	IsSet() bool
}

// EmptyColumn renders as an empty, unquoted column.
var EmptyColumn Column = emptyColumn{}

type emptyColumn struct{}

func (emptyColumn) IIF() string { return "" }
func (emptyColumn) IsSet() bool { return true }

// =============================================================================
// ESCAPING
// =============================================================================

// StripQuotes removes one leading and one trailing double quote, if present.
func StripQuotes(value string) string {
	value = strings.TrimPrefix(value, `"`)
	return strings.TrimSuffix(value, `"`)
}

// EscapeColumn renders a string-like value as a quoted IIF column.
//
// EXAMPLE:
//
//	EscapeColumn(`He said "hi"`) == `"He said \"hi\""`
func EscapeColumn(value string) string {
	escaped := strings.ReplaceAll(StripQuotes(value), `"`, `\"`)
	return `"` + escaped + `"`
}

// =============================================================================
// JOINING
// =============================================================================

// JoinColumns joins columns with tabs.
func JoinColumns(columns []string) string {
	return strings.Join(columns, ColumnSeparator)
}

// JoinLines joins rows with newlines. No trailing newline is added.
func JoinLines(lines []string) string {
	return strings.Join(lines, LineSeparator)
}

// ExportColumns renders a complete row: the prefix columns verbatim, then
// each column's IIF text, then the suffix columns verbatim.
//
// Every entry of columns must be non-nil and set; otherwise a
// MissingRequiredFieldError naming the one-based index within columns is
// returned. The row kind reported in the error is the first prefix column.
func ExportColumns(prefix []string, columns []Column, suffix []string) (string, error) {
	row := make([]string, 0, len(prefix)+len(columns)+len(suffix))
	row = append(row, prefix...)

	for i, column := range columns {
		if column == nil || !column.IsSet() {
			kind := ""
			if len(prefix) > 0 {
				kind = prefix[0]
			}
			return "", iiferr.MissingRequiredField(kind, i+1)
		}
		row = append(row, column.IIF())
	}

	row = append(row, suffix...)
	return JoinColumns(row), nil
}

// =============================================================================
// MONEY
// =============================================================================

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(value decimal.Decimal) decimal.Decimal {
	return value.Round(MoneyPlaces)
}

// CompareMoney compares two amounts after rounding both to two decimal
// places. It returns -1, 0 or +1 like decimal.Decimal.Cmp.
func CompareMoney(a, b decimal.Decimal) int {
	return RoundMoney(a).Cmp(RoundMoney(b))
}

// FormatMoney renders an amount with exactly two decimal places and no
// grouping separators. Rounding, when needed, is half-even.
func FormatMoney(value decimal.Decimal) string {
	return value.StringFixedBank(MoneyPlaces)
}

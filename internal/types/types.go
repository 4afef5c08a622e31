// =============================================================================
// CSV to IIF Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser and xlsxparser (producers of Table)
//   - validation (consumer of Group)
//   - converter (orchestrates all of the above)
//
// =============================================================================

package types

// =============================================================================
// SOURCE DATA
// =============================================================================

// Table is a parsed source file: a header row plus data rows keyed by header.
type Table struct {
	// Headers are the cleaned column headers in file order.
	Headers []string

	// Rows are the non-empty data rows.
	Rows []Row

	// SourceFile is the path the table was read from.
	SourceFile string
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether header exists in the table.
func (t *Table) HasColumn(header string) bool {
	for _, h := range t.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// Row is one data row.
type Row struct {
	// Number is the 1-based row number in the source file, for error reporting.
	Number int

	// Fields maps source header to (possibly transformed) cell value.
	Fields map[string]string
}

// Get returns the value of a column, or "" when the column is absent.
func (r Row) Get(header string) string {
	return r.Fields[header]
}

// =============================================================================
// TRANSACTION GROUPS
// =============================================================================

// Group is the set of rows that become one IIF transaction. The first row
// becomes the TRNS line; the rest become SPL lines.
type Group struct {
	// Index is the 1-based position of the group in the file.
	Index int

	// Key is the value of the grouping column shared by the rows.
	Key string

	// Rows are the member rows in output order.
	Rows []Row
}

// =============================================================================
// CSV to IIF Converter - Error Taxonomy
// =============================================================================
//
// This package defines the errors raised while assembling and exporting IIF
// documents. Every failure is synchronous and terminal for the current export:
// callers are expected to fix their input and rebuild the whole document.
//
// USAGE:
//   Each concrete error type matches one of the sentinel values below, so
//   callers can branch with errors.Is, or extract details with errors.As:
//
//     if errors.Is(err, iiferr.ErrOutOfBalance) { ... }
//
//     var oob *iiferr.OutOfBalanceError
//     if errors.As(err, &oob) { fmt.Println(oob.Discrepancy) }
//
// =============================================================================

package iiferr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINELS
// =============================================================================

var (
	// ErrInvalidValue is matched by InvalidValueError.
	ErrInvalidValue = errors.New("invalid value")

	// ErrMissingRequiredField is matched by MissingRequiredFieldError.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrIllegalField is matched by IllegalFieldError.
	ErrIllegalField = errors.New("illegal field for transaction type")

	// ErrOutOfBalance is matched by OutOfBalanceError.
	ErrOutOfBalance = errors.New("transaction out of balance")

	// ErrDuplicateName is matched by DuplicateNameError.
	ErrDuplicateName = errors.New("duplicate name across tables")
)

// =============================================================================
// INVALID VALUE
// =============================================================================

// InvalidValueError is returned when a value constructor or builder setter
// rejects its input.
type InvalidValueError struct {
	// Field names the value being constructed (e.g. "Account", "DocNumber").
	Field string

	// Value is the rejected input, rendered as text.
	Value string

	// Reason explains the rejection.
	Reason string
}

// InvalidValue creates an InvalidValueError.
func InvalidValue(field, value, reason string) error {
	return &InvalidValueError{Field: field, Value: value, Reason: reason}
}

func (e *InvalidValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// =============================================================================
// MISSING REQUIRED FIELD
// =============================================================================

// MissingRequiredFieldError is returned when a row is rendered while one of
// its required columns is still unset.
type MissingRequiredFieldError struct {
	// Column is the one-based index of the first unset column, counted
	// after the row-kind tag.
	Column int

	// RowKind is the row tag being rendered (TRNS, SPL, ...).
	RowKind string
}

// MissingRequiredField creates a MissingRequiredFieldError.
func MissingRequiredField(rowKind string, column int) error {
	return &MissingRequiredFieldError{RowKind: rowKind, Column: column}
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf(
		"not all required %s columns contain a value (unset at one-based column index %d)",
		e.RowKind, e.Column)
}

func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// =============================================================================
// ILLEGAL FIELD FOR TRANSACTION TYPE
// =============================================================================

// IllegalFieldError is returned when a type-restricted field is set on a line
// whose transaction type does not allow it, or when the type of such a line
// is changed afterwards.
type IllegalFieldError struct {
	Field   string
	TxnType string
	Reason  string
}

// IllegalField creates an IllegalFieldError.
func IllegalField(field, txnType, reason string) error {
	return &IllegalFieldError{Field: field, TxnType: txnType, Reason: reason}
}

func (e *IllegalFieldError) Error() string {
	if e.TxnType == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s not allowed for transaction type %s: %s", e.Field, e.TxnType, e.Reason)
}

func (e *IllegalFieldError) Is(target error) bool {
	return target == ErrIllegalField
}

// =============================================================================
// OUT OF BALANCE
// =============================================================================

// OutOfBalanceError is returned when a transaction's debits and credits do
// not net to zero.
type OutOfBalanceError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal

	// Discrepancy is Debits minus Credits. Positive when debits exceed
	// credits.
	Discrepancy decimal.Decimal

	// Report is the human-readable listing of the offending transaction.
	// It may be empty.
	Report string
}

func (e *OutOfBalanceError) Error() string {
	msg := fmt.Sprintf(
		"transaction is not in balance (CREDITS: %s, DEBITS: %s, DISCREPANCY: %s)",
		exact(e.Credits), exact(e.Debits), exact(e.Discrepancy))
	if e.Report != "" {
		msg += "\n" + e.Report
	}
	return msg
}

// exact prints d with at least two decimal places, keeping any sub-cent
// digits so a 0.004 discrepancy does not read as 0.00.
func exact(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}

func (e *OutOfBalanceError) Is(target error) bool {
	return target == ErrOutOfBalance
}

// =============================================================================
// DUPLICATE NAME ACROSS TABLES
// =============================================================================

// DuplicateNameError is returned when a name is added to a second name table
// of the same document.
type DuplicateNameError struct {
	Name string

	// Table is the table the name already belongs to.
	Table string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf(
		"the name %q must appear in only one name table (already present in the %s table)",
		e.Name, e.Table)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// =============================================================================
// CSV to IIF Converter - Validation Module
// =============================================================================
//
// This module checks mapped journal rows before any IIF is produced and, in
// the same pass, converts each row's text fields into typed line values.
//
// VALIDATION LEVELS:
//   1. Field: required fields, amount/date/boolean syntax, document number
//      length, known transaction type, non-blank names
//   2. Line: header-only fields (TOPRINT, DUEDATE, TERMS) on split rows
//   3. Transaction: balance, consistent type, fields the type does not allow
//
// SEVERITY:
//   - "error":   The transaction is rejected
//   - "warning": Reported, the transaction is still exported
//
// Rows arrive keyed by IIF field name (config.Field*), after the converter
// has applied column mapping and static fields.
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/types"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"
	"github.com/shopspring/decimal"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR STRUCTURE
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is "error" or "warning".
	Severity string

	// Field is the IIF field name, or "transaction" for group-level checks.
	Field string

	// Value is the offending value.
	Value string

	// Rule names the check that failed, e.g. "required", "max_length".
	Rule string

	Message string

	// GroupKey identifies the transaction.
	GroupKey string

	// TransactionID is the 1-based transaction index in the file.
	TransactionID int

	// RowNumber is the source row, or 0 for transaction-level findings.
	RowNumber int

	// Err is the underlying model error, when there is one.
	Err error
}

func (e *ValidationError) Error() string {
	location := fmt.Sprintf("Transaction %d (%s)", e.TransactionID, e.GroupKey)
	if e.RowNumber > 0 {
		location += fmt.Sprintf(", Row %d", e.RowNumber)
	}
	msg := fmt.Sprintf("[%s] %s, Field '%s': %s",
		strings.ToUpper(e.Severity), location, e.Field, e.Message)
	if e.Value != "" {
		msg += fmt.Sprintf(" (value: '%s')", e.Value)
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// =============================================================================
// RESULTS
// =============================================================================

// Entry is one row converted to typed line values.
type Entry struct {
	RowNumber     int
	Type          models.TxnType
	Date          models.Date
	Account       models.Account
	Amount        models.Amount
	DocNumber     models.DocNumber
	ID            models.TxnIdentifier
	Name          models.Name
	Class         models.TxnClass
	Memo          models.Memo
	PaymentMethod models.PaymentMethod
	ToPrint       models.BooleanValue
	DueDate       models.Date
	Terms         models.PaymentTerms
}

// CheckedTransaction is a validated group.
type CheckedTransaction struct {
	Group types.Group

	// Type is the transaction type taken from the first row.
	Type models.TxnType

	// Entries holds one entry per row; only meaningful when Valid.
	Entries []Entry

	// Valid is false when any error-level finding applies.
	Valid bool
}

// ValidationResult contains the complete validation results.
type ValidationResult struct {
	// IsValid is true when there are no errors (and, with
	// TreatWarningsAsErrors, no warnings).
	IsValid bool

	Errors []*ValidationError

	ErrorCount   int
	WarningCount int

	TransactionsValidated int
	RowsValidated         int

	// Transactions are the checked groups in input order.
	Transactions []CheckedTransaction
}

// ValidTransactions returns the groups that passed.
func (r *ValidationResult) ValidTransactions() []CheckedTransaction {
	var valid []CheckedTransaction
	for _, t := range r.Transactions {
		if t.Valid {
			valid = append(valid, t)
		}
	}
	return valid
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator validates mapped rows for one department.
type Validator struct {
	dateFormat  string
	defaultType models.TxnType
	options     ValidationOptions
}

// ValidationOptions configures validation behavior.
type ValidationOptions struct {
	// StopOnFirstError stops after the first error-level finding.
	StopOnFirstError bool

	// TreatWarningsAsErrors makes warnings reject transactions too.
	TreatWarningsAsErrors bool

	// CustomValidators run per field. A non-empty return is an error.
	CustomValidators map[string]CustomValidatorFunc
}

// CustomValidatorFunc checks one field value.
type CustomValidatorFunc func(value string, context ValidationContext) string

// ValidationContext provides context for custom validators.
type ValidationContext struct {
	FieldName string
	Group     types.Group
	Row       types.Row
	IsHeader  bool
}

// DefaultValidationOptions returns the default validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{CustomValidators: make(map[string]CustomValidatorFunc)}
}

// NewValidator creates a validator for a department.
func NewValidator(dept *config.DepartmentConfig) (*Validator, error) {
	return NewValidatorWithOptions(dept, DefaultValidationOptions())
}

// NewValidatorWithOptions creates a validator with custom options.
func NewValidatorWithOptions(dept *config.DepartmentConfig, options ValidationOptions) (*Validator, error) {
	defaultType := models.TxnGeneralJournal
	if dept.DefaultTxnType != "" {
		t, err := models.ParseTxnType(dept.DefaultTxnType)
		if err != nil {
			return nil, fmt.Errorf("default transaction type: %w", err)
		}
		defaultType = t
	}
	dateFormat := dept.DateFormat
	if dateFormat == "" {
		dateFormat = models.DateLayout
	}
	return &Validator{dateFormat: dateFormat, defaultType: defaultType, options: options}, nil
}

// =============================================================================
// MAIN VALIDATION FUNCTIONS
// =============================================================================

// ValidateAll validates every group.
func (v *Validator) ValidateAll(groups []types.Group) *ValidationResult {
	result := &ValidationResult{
		IsValid:               true,
		Errors:                make([]*ValidationError, 0),
		TransactionsValidated: len(groups),
	}

	for _, group := range groups {
		checked, findings := v.ValidateTransaction(group)
		result.RowsValidated += len(group.Rows)

		for _, f := range findings {
			result.Errors = append(result.Errors, f)
			if f.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
			} else {
				result.WarningCount++
				if v.options.TreatWarningsAsErrors {
					result.IsValid = false
				}
			}
		}
		result.Transactions = append(result.Transactions, checked)

		if v.options.StopOnFirstError && result.ErrorCount > 0 {
			break
		}
	}

	return result
}

// ValidateTransaction validates one group and converts its rows.
func (v *Validator) ValidateTransaction(group types.Group) (CheckedTransaction, []*ValidationError) {
	c := &collector{group: group}
	checked := CheckedTransaction{Group: group}

	if len(group.Rows) == 0 {
		c.add(SeverityError, 0, "transaction", "", "empty", "transaction has no lines", nil)
		return checked, c.findings
	}

	for i, row := range group.Rows {
		entry := v.validateRow(c, group, row, i == 0)
		checked.Entries = append(checked.Entries, entry)
	}
	checked.Type = checked.Entries[0].Type

	v.validateTransactionLevel(c, &checked)

	checked.Valid = !c.hasErrors(v.options.TreatWarningsAsErrors)
	return checked, c.findings
}

// =============================================================================
// ROW VALIDATION
// =============================================================================

func (v *Validator) validateRow(c *collector, group types.Group, row types.Row, isHeader bool) Entry {
	entry := Entry{RowNumber: row.Number, Type: v.defaultType}
	n := row.Number
	get := func(field string) string { return strings.TrimSpace(row.Get(field)) }

	for _, field := range []string{config.FieldAccount, config.FieldDate, config.FieldAmount} {
		if get(field) == "" {
			c.add(SeverityError, n, field, "", "required", fmt.Sprintf("required field '%s' is empty", field), nil)
		}
	}

	if s := get(config.FieldAccount); s != "" {
		entry.Account, _ = models.NewAccount(s)
	}

	if s := get(config.FieldAmount); s != "" {
		amount, err := models.ParseAmount(s)
		if err != nil {
			c.add(SeverityError, n, config.FieldAmount, s, "data_type", "not a decimal amount", err)
		} else if !amount.Value().Equal(iifutil.RoundMoney(amount.Value())) {
			c.add(SeverityWarning, n, config.FieldAmount, s, "precision",
				fmt.Sprintf("amount has more than 2 decimal places and is written as %s", amount.IIF()), nil)
		}
		entry.Amount = amount
	}

	if s := get(config.FieldDate); s != "" {
		d, err := models.ParseDateLayout(v.dateFormat, s)
		if err != nil {
			c.add(SeverityError, n, config.FieldDate, s, "data_type",
				fmt.Sprintf("date does not match format %q", v.dateFormat), err)
		}
		entry.Date = d
	}

	if s := get(config.FieldTxnType); s != "" {
		t, err := models.ParseTxnType(s)
		if err != nil {
			c.add(SeverityError, n, config.FieldTxnType, s, "enum", "unknown transaction type", err)
		} else {
			entry.Type = t
		}
	}

	if s := get(config.FieldDocNumber); s != "" {
		doc, err := models.NewDocNumber(s)
		if err != nil {
			c.add(SeverityError, n, config.FieldDocNumber, s, "max_length",
				fmt.Sprintf("document number exceeds %d characters", models.MaxDocNumberLength), err)
		}
		entry.DocNumber = doc
	}

	entry.ID, _ = models.NewTxnIdentifier(get(config.FieldTxnID))
	entry.Name, _ = models.NewName(get(config.FieldName))
	entry.Class, _ = models.NewTxnClass(get(config.FieldClass))
	entry.Memo, _ = models.NewMemo(row.Get(config.FieldMemo))
	entry.PaymentMethod, _ = models.NewPaymentMethod(get(config.FieldPaymentMethod))

	// Header-only fields.
	headerOnly := map[string]string{
		config.FieldToPrint: get(config.FieldToPrint),
		config.FieldDueDate: get(config.FieldDueDate),
		config.FieldTerms:   get(config.FieldTerms),
	}
	if !isHeader {
		for _, field := range []string{config.FieldToPrint, config.FieldDueDate, config.FieldTerms} {
			if headerOnly[field] != "" {
				c.add(SeverityWarning, n, field, headerOnly[field], "header_only",
					"only used on the first line of a transaction; ignored", nil)
			}
		}
	} else {
		if s := headerOnly[config.FieldToPrint]; s != "" {
			b, err := models.ParseBooleanValue(s)
			if err != nil {
				c.add(SeverityError, n, config.FieldToPrint, s, "data_type", "expected Y or N", err)
			}
			entry.ToPrint = b
		}
		if s := headerOnly[config.FieldDueDate]; s != "" {
			d, err := models.ParseDateLayout(v.dateFormat, s)
			if err != nil {
				c.add(SeverityError, n, config.FieldDueDate, s, "data_type",
					fmt.Sprintf("date does not match format %q", v.dateFormat), err)
			}
			entry.DueDate = d
		}
		entry.Terms, _ = models.NewPaymentTerms(headerOnly[config.FieldTerms])
	}

	fields := make([]string, 0, len(v.options.CustomValidators))
	for field := range v.options.CustomValidators {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		validate := v.options.CustomValidators[field]
		value := row.Get(field)
		ctx := ValidationContext{FieldName: field, Group: group, Row: row, IsHeader: isHeader}
		if msg := validate(value, ctx); msg != "" {
			c.add(SeverityError, n, field, value, "custom", msg, nil)
		}
	}

	return entry
}

// =============================================================================
// TRANSACTION-LEVEL VALIDATION
// =============================================================================

func (v *Validator) validateTransactionLevel(c *collector, checked *CheckedTransaction) {
	header := checked.Entries[0]
	txnType := header.Type

	for _, e := range checked.Entries[1:] {
		if e.Type != txnType {
			c.add(SeverityWarning, e.RowNumber, config.FieldTxnType, e.Type.Code(), "consistency",
				fmt.Sprintf("transaction type differs from the first line; %s is used", txnType.Code()), nil)
		}
	}

	if header.ToPrint != models.BooleanEmpty && !txnType.IsPrintable() {
		c.add(SeverityError, header.RowNumber, config.FieldToPrint, header.ToPrint.IIF(), "type_field",
			fmt.Sprintf("%s transactions cannot be printed", txnType.Code()), nil)
	}
	if header.DueDate.IsSet() && !txnType.IsReceivable() {
		c.add(SeverityError, header.RowNumber, config.FieldDueDate, header.DueDate.String(), "type_field",
			fmt.Sprintf("%s transactions cannot have a due date", txnType.Code()), nil)
	}
	if !header.Terms.IsEmpty() && !txnType.IsReceivable() {
		c.add(SeverityError, header.RowNumber, config.FieldTerms, header.Terms.Value(), "type_field",
			fmt.Sprintf("%s transactions cannot have payment terms", txnType.Code()), nil)
	}

	// Balance is exact, as in models.Transaction.IsBalanced. The rendered
	// cents must net to zero too or the imported file is out of balance.
	total, rendered := decimal.Zero, decimal.Zero
	for _, e := range checked.Entries {
		total = total.Add(e.Amount.Value())
		rendered = rendered.Add(e.Amount.Value().RoundBank(iifutil.MoneyPlaces))
	}
	switch {
	case !total.IsZero():
		c.add(SeverityError, 0, "transaction", total.String(), "balance",
			"debits and credits do not balance", nil)
	case !rendered.IsZero():
		c.add(SeverityError, 0, "transaction", iifutil.FormatMoney(rendered), "rounding",
			"amounts balance but do not balance once rounded to cents", nil)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

type collector struct {
	group    types.Group
	findings []*ValidationError
}

func (c *collector) add(severity string, row int, field, value, rule, message string, err error) {
	c.findings = append(c.findings, &ValidationError{
		Severity:      severity,
		Field:         field,
		Value:         value,
		Rule:          rule,
		Message:       message,
		GroupKey:      c.group.Key,
		TransactionID: c.group.Index,
		RowNumber:     row,
		Err:           err,
	})
}

func (c *collector) hasErrors(warningsAreErrors bool) bool {
	for _, f := range c.findings {
		if f.Severity == SeverityError || warningsAreErrors {
			return true
		}
	}
	return false
}

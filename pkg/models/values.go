// =============================================================================
// CSV to IIF Converter - Scalar Value Types
// =============================================================================
//
// Typed wrappers for every column that can appear on a transaction line.
// Values are immutable once constructed.
//
// EMPTY VALUES:
//   Optional string-like types (Name, Memo, DocNumber, TxnClass,
//   TxnIdentifier, PaymentMethod, PaymentTerms) use their zero value as the
//   "empty" sentinel: it is a valid value that renders as "".
//
//   Required types (Account, Amount, Date, TxnType) have no empty sentinel.
//   Their zero value means "not set" and fails the required-field check when
//   a line is rendered.
//
// =============================================================================

package models

import (
	"strings"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
)

// MaxDocNumberLength is the longest document number the consumer accepts.
const MaxDocNumberLength = 15

// stringValue is the shared representation of the string-like types.
type stringValue struct {
	value string
}

// Value returns the raw, unescaped text.
func (s stringValue) Value() string { return s.value }

// IIF returns the quoted, escaped column text.
func (s stringValue) IIF() string { return iifutil.EscapeColumn(s.value) }

// IsSet always reports true; the zero value is the empty sentinel.
func (s stringValue) IsSet() bool { return true }

// IsEmpty reports whether this is the empty sentinel.
func (s stringValue) IsEmpty() bool { return s.value == "" }

func (s stringValue) String() string { return s.value }

// requireText rejects empty and blank input for types without a sentinel.
func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return iiferr.InvalidValue(field, value, "value cannot be empty")
	}
	return nil
}

// =============================================================================
// ACCOUNT
// =============================================================================

// Account is a chart-of-accounts name. It is required on every line.
type Account struct{ stringValue }

// Well-known accounts used by the builders.
var (
	AccountsReceivable = Account{stringValue{"Accounts Receivable"}}
	AccountsPayable    = Account{stringValue{"Accounts Payable"}}
)

// NewAccount creates an Account. Empty names are rejected.
func NewAccount(value string) (Account, error) {
	if err := requireText("Account", value); err != nil {
		return Account{}, err
	}
	return Account{stringValue{value}}, nil
}

// IsSet reports whether the account has been assigned.
func (a Account) IsSet() bool { return a.value != "" }

// =============================================================================
// NAME
// =============================================================================

// Name identifies a customer, vendor, employee or other entity.
type Name struct{ stringValue }

// EmptyName is the "no name" sentinel.
var EmptyName = Name{}

// NewName creates a Name. Use EmptyName for "no name".
func NewName(value string) (Name, error) {
	if err := requireText("Name", value); err != nil {
		return Name{}, err
	}
	return Name{stringValue{value}}, nil
}

// Less orders names lexicographically, case-sensitively.
func (n Name) Less(other Name) bool { return n.value < other.value }

// =============================================================================
// MEMO
// =============================================================================

// Memo is free text attached to a line.
type Memo struct{ stringValue }

// EmptyMemo is the "no memo" sentinel.
var EmptyMemo = Memo{}

// NewMemo creates a Memo. Use EmptyMemo for "no memo".
func NewMemo(value string) (Memo, error) {
	if err := requireText("Memo", value); err != nil {
		return Memo{}, err
	}
	return Memo{stringValue{value}}, nil
}

// =============================================================================
// DOC NUMBER
// =============================================================================

// DocNumber is a check number, entry number or other reference number.
type DocNumber struct{ stringValue }

// EmptyDocNumber is the "no reference" sentinel.
var EmptyDocNumber = DocNumber{}

// NewDocNumber creates a DocNumber. Values longer than MaxDocNumberLength
// characters are rejected; they are never truncated.
func NewDocNumber(value string) (DocNumber, error) {
	if err := requireText("DocNumber", value); err != nil {
		return DocNumber{}, err
	}
	if n := len([]rune(value)); n > MaxDocNumberLength {
		return DocNumber{}, iiferr.InvalidValue("DocNumber", value, "value cannot be longer than 15 characters")
	}
	return DocNumber{stringValue{value}}, nil
}

// =============================================================================
// TXN CLASS
// =============================================================================

// TxnClass is the class (department, location, ...) a line is tracked in.
type TxnClass struct{ stringValue }

// EmptyTxnClass is the "unclassified" sentinel.
var EmptyTxnClass = TxnClass{}

// NewTxnClass creates a TxnClass.
func NewTxnClass(value string) (TxnClass, error) {
	if err := requireText("TxnClass", value); err != nil {
		return TxnClass{}, err
	}
	return TxnClass{stringValue{value}}, nil
}

// =============================================================================
// TXN IDENTIFIER
// =============================================================================

// TxnIdentifier is the TRNSID / SPLID column. It is normally left empty so
// the consumer assigns its own identifiers.
type TxnIdentifier struct{ stringValue }

// EmptyTxnIdentifier is the "let the consumer assign it" sentinel.
var EmptyTxnIdentifier = TxnIdentifier{}

// NewTxnIdentifier creates a TxnIdentifier.
func NewTxnIdentifier(value string) (TxnIdentifier, error) {
	if err := requireText("TxnIdentifier", value); err != nil {
		return TxnIdentifier{}, err
	}
	return TxnIdentifier{stringValue{value}}, nil
}

// =============================================================================
// PAYMENT METHOD
// =============================================================================

// PaymentMethod is the PAYMETH column.
type PaymentMethod struct{ stringValue }

// Payment methods known to a stock company file.
var (
	EmptyPaymentMethod      = PaymentMethod{}
	PaymentMethodCash       = PaymentMethod{stringValue{"Cash"}}
	PaymentMethodCheck      = PaymentMethod{stringValue{"Check"}}
	PaymentMethodECheck     = PaymentMethod{stringValue{"E-Check"}}
	PaymentMethodACH        = PaymentMethod{stringValue{"ACH Transfer"}}
	PaymentMethodWire       = PaymentMethod{stringValue{"Wire Transfer"}}
	PaymentMethodAmex       = PaymentMethod{stringValue{"American Express"}}
	PaymentMethodDiscover   = PaymentMethod{stringValue{"Discover"}}
	PaymentMethodMasterCard = PaymentMethod{stringValue{"MasterCard"}}
	PaymentMethodVisa       = PaymentMethod{stringValue{"Visa"}}
	PaymentMethodDebitCard  = PaymentMethod{stringValue{"Debit Card"}}
	PaymentMethodGiftCard   = PaymentMethod{stringValue{"Gift Card"}}
)

// NewPaymentMethod creates a PaymentMethod. Any non-empty name is accepted,
// since company files can define their own methods.
func NewPaymentMethod(value string) (PaymentMethod, error) {
	if err := requireText("PaymentMethod", value); err != nil {
		return PaymentMethod{}, err
	}
	return PaymentMethod{stringValue{value}}, nil
}

// =============================================================================
// PAYMENT TERMS
// =============================================================================

// PaymentTerms is the TERMS column of a bill or invoice.
type PaymentTerms struct{ stringValue }

// Terms known to a stock company file.
var (
	EmptyPaymentTerms = PaymentTerms{}
	TermsDueOnReceipt = PaymentTerms{stringValue{"Due on receipt"}}
	TermsNet7         = PaymentTerms{stringValue{"Net 7"}}
	TermsNet15        = PaymentTerms{stringValue{"Net 15"}}
	TermsNet30        = PaymentTerms{stringValue{"Net 30"}}
	TermsNet60        = PaymentTerms{stringValue{"Net 60"}}
)

// NewPaymentTerms creates PaymentTerms.
func NewPaymentTerms(value string) (PaymentTerms, error) {
	if err := requireText("PaymentTerms", value); err != nil {
		return PaymentTerms{}, err
	}
	return PaymentTerms{stringValue{value}}, nil
}

// =============================================================================
// BOOLEAN VALUE
// =============================================================================

// BooleanValue is a tri-state Y / N / empty column.
type BooleanValue uint8

const (
	BooleanEmpty BooleanValue = iota
	BooleanTrue
	BooleanFalse
)

// BooleanOf converts a bool.
func BooleanOf(b bool) BooleanValue {
	if b {
		return BooleanTrue
	}
	return BooleanFalse
}

func (b BooleanValue) IIF() string {
	switch b {
	case BooleanTrue:
		return "Y"
	case BooleanFalse:
		return "N"
	default:
		return ""
	}
}

func (b BooleanValue) IsSet() bool { return true }

// ParseBooleanValue accepts Y/N, yes/no, true/false and 1/0 in any case.
// Empty input yields BooleanEmpty.
func ParseBooleanValue(text string) (BooleanValue, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "":
		return BooleanEmpty, nil
	case "y", "yes", "true", "1":
		return BooleanTrue, nil
	case "n", "no", "false", "0":
		return BooleanFalse, nil
	}
	return BooleanEmpty, iiferr.InvalidValue("Boolean", text, "expected Y or N")
}

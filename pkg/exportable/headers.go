package exportable

import (
	"fmt"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
)

// HeaderKind selects one of the fixed schema rows.
type HeaderKind int

const (
	TransactionHeaderKind HeaderKind = iota
	SplitHeaderKind
	TerminationHeaderKind
	CustomerHeaderKind
	VendorHeaderKind
	OtherNameHeaderKind
)

// Row tags for data rows.
const (
	TransactionTag = "TRNS"
	SplitTag       = "SPL"
	TerminationTag = "ENDTRNS"
	CustomerTag    = "CUST"
	VendorTag      = "VEND"
	OtherNameTag   = "OTHERNAME"
)

// The column order of TRNS and SPL data rows follows these headers exactly.
// TOPRINT, DUEDATE and TERMS are present on TRNS rows only.
var headerColumns = map[HeaderKind][]string{
	TransactionHeaderKind: {
		"!TRNS", "DOCNUM", "TRNSID", "TRNSTYPE", "DATE", "ACCNT", "NAME", "CLASS",
		"AMOUNT", "PAYMETH", "TOPRINT", "DUEDATE", "TERMS", "MEMO",
	},
	SplitHeaderKind: {
		"!SPL", "DOCNUM", "SPLID", "TRNSTYPE", "DATE", "ACCNT", "NAME", "CLASS",
		"AMOUNT", "PAYMETH", "MEMO",
	},
	TerminationHeaderKind: {"!ENDTRNS", ""},
	CustomerHeaderKind:    {"!CUST", "NAME"},
	VendorHeaderKind:      {"!VEND", "NAME"},
	OtherNameHeaderKind:   {"!OTHERNAME", "NAME"},
}

// Columns returns the header row's columns, tag first.
func (k HeaderKind) Columns() []string {
	cols := headerColumns[k]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// HeaderLine is a single schema row.
type HeaderLine struct {
	Kind HeaderKind
}

func (h HeaderLine) Render() (string, error) {
	cols, ok := headerColumns[h.Kind]
	if !ok {
		return "", fmt.Errorf("unknown header kind %d", h.Kind)
	}
	return iifutil.JoinColumns(cols), nil
}

// TransactionHeader is the three-row schema that precedes all transactions.
type TransactionHeader struct{}

func (TransactionHeader) Children() ([]Exportable, error) {
	return []Exportable{
		HeaderLine{Kind: TransactionHeaderKind},
		HeaderLine{Kind: SplitHeaderKind},
		HeaderLine{Kind: TerminationHeaderKind},
	}, nil
}

func (h TransactionHeader) Render() (string, error) {
	return RenderComposite(h)
}

// TerminationLine closes a transaction.
type TerminationLine struct{}

func (TerminationLine) Render() (string, error) {
	return iifutil.JoinColumns([]string{TerminationTag, ""}), nil
}

// NameLine is one row of a name table.
type NameLine struct {
	Tag  string
	Name iifutil.Column
}

func (n NameLine) Render() (string, error) {
	return iifutil.ExportColumns([]string{n.Tag}, []iifutil.Column{n.Name}, nil)
}

// =============================================================================
// CSV to IIF Converter - IIF Document
// =============================================================================
//
// Document is the root of the export tree. It aggregates transactions and
// three name tables (customers, vendors, other names) and renders them in
// the order the importing application expects:
//
//   1. !CUST table       (omitted when empty)
//   2. !VEND table       (omitted when empty)
//   3. !OTHERNAME table  (omitted when empty)
//   4. !TRNS / !SPL / !ENDTRNS schema header
//   5. Each transaction, in insertion order
//   6. A trailing newline, so the final row is recognized
//
// NAME TABLES:
//   A name may appear in at most one table. Adding the same name to the same
//   table twice is a no-op. Names are case-sensitive and render sorted.
//
// =============================================================================

package iif

import (
	"sort"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/exportable"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"
)

// NameTable identifies one of the document's name tables.
type NameTable int

const (
	CustomerTable NameTable = iota
	VendorTable
	OtherNameTable
)

var nameTables = []struct {
	label  string
	tag    string
	header exportable.HeaderKind
}{
	CustomerTable:  {"customer", exportable.CustomerTag, exportable.CustomerHeaderKind},
	VendorTable:    {"vendor", exportable.VendorTag, exportable.VendorHeaderKind},
	OtherNameTable: {"other name", exportable.OtherNameTag, exportable.OtherNameHeaderKind},
}

func (t NameTable) String() string {
	if int(t) < 0 || int(t) >= len(nameTables) {
		return "unknown"
	}
	return nameTables[t].label
}

// Document is an IIF file under construction.
type Document struct {
	transactions exportable.List
	names        [3]map[models.Name]struct{}
}

// New creates an empty document.
func New() *Document {
	d := &Document{}
	for i := range d.names {
		d.names[i] = make(map[models.Name]struct{})
	}
	return d
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// AddTransaction appends a copy of the transaction. Balance is not checked
// until the document is rendered.
func (d *Document) AddTransaction(txn *models.Transaction) {
	d.transactions.Add(txn.Clone())
}

// Transactions returns copies of the document's transactions.
func (d *Document) Transactions() []*models.Transaction {
	items, _ := d.transactions.Children()
	out := make([]*models.Transaction, len(items))
	for i, item := range items {
		out[i] = item.(*models.Transaction).Clone()
	}
	return out
}

// =============================================================================
// NAME TABLES
// =============================================================================

// AddCustomerName adds a name to the customer table.
func (d *Document) AddCustomerName(name models.Name) error {
	return d.AddName(CustomerTable, name)
}

// AddVendorName adds a name to the vendor table.
func (d *Document) AddVendorName(name models.Name) error {
	return d.AddName(VendorTable, name)
}

// AddOtherName adds a name to the other-names table.
func (d *Document) AddOtherName(name models.Name) error {
	return d.AddName(OtherNameTable, name)
}

// AddName adds a name to the given table. It fails with a DuplicateNameError
// when the name is already in a different table.
func (d *Document) AddName(table NameTable, name models.Name) error {
	if int(table) < 0 || int(table) >= len(d.names) {
		return iiferr.InvalidValue("NameTable", table.String(), "unknown name table")
	}
	if name.IsEmpty() {
		return iiferr.InvalidValue("Name", "", "name table entries cannot be empty")
	}

	for other := range d.names {
		if NameTable(other) == table {
			continue
		}
		if _, exists := d.names[other][name]; exists {
			return &iiferr.DuplicateNameError{Name: name.Value(), Table: NameTable(other).String()}
		}
	}

	d.names[table][name] = struct{}{}
	return nil
}

// CustomerNames returns the customer table, sorted.
func (d *Document) CustomerNames() []models.Name { return d.Names(CustomerTable) }

// VendorNames returns the vendor table, sorted.
func (d *Document) VendorNames() []models.Name { return d.Names(VendorTable) }

// OtherNames returns the other-names table, sorted.
func (d *Document) OtherNames() []models.Name { return d.Names(OtherNameTable) }

// Names returns the given table's names, sorted.
func (d *Document) Names(table NameTable) []models.Name {
	if int(table) < 0 || int(table) >= len(d.names) {
		return nil
	}
	out := make([]models.Name, 0, len(d.names[table]))
	for name := range d.names[table] {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// =============================================================================
// RENDERING
// =============================================================================

// Children returns the name tables, the schema header and the transactions,
// in render order.
func (d *Document) Children() ([]exportable.Exportable, error) {
	var children []exportable.Exportable

	for table := range nameTables {
		names := d.Names(NameTable(table))
		if len(names) == 0 {
			continue
		}
		children = append(children, exportable.HeaderLine{Kind: nameTables[table].header})
		for _, name := range names {
			children = append(children, exportable.NameLine{Tag: nameTables[table].tag, Name: name})
		}
	}

	children = append(children, exportable.TransactionHeader{})
	if d.transactions.Len() > 0 {
		children = append(children, &d.transactions)
	}
	return children, nil
}

// Render produces the complete IIF text, including the trailing newline.
// Any unbalanced transaction fails the whole render.
func (d *Document) Render() (string, error) {
	body, err := exportable.RenderComposite(d)
	if err != nil {
		return "", err
	}
	return body + iifutil.LineSeparator, nil
}

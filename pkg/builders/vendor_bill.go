package builders

import (
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"
	"github.com/shopspring/decimal"
)

// BillItem is one expense line of a vendor bill. CustomerOrJob, Memo and
// Class may be left empty.
type BillItem struct {
	Account       models.Account
	Amount        models.Amount
	CustomerOrJob models.Name
	Memo          models.Memo
	Class         models.TxnClass
}

// VendorBill builds BILL transactions. The header line credits Accounts
// Payable for the total of the line items, which are debited as splits.
type VendorBill struct {
	base
	vendor          models.Name
	date            models.Date
	referenceNumber models.DocNumber
	dueDate         models.Date
	terms           models.PaymentTerms
	memo            models.Memo
	items           []BillItem
	total           decimal.Decimal
}

func NewVendorBill() *VendorBill {
	return &VendorBill{total: decimal.Zero}
}

func (b *VendorBill) SetVendor(n models.Name) *VendorBill {
	b.vendor = n
	return b
}

func (b *VendorBill) SetDate(d models.Date) *VendorBill {
	b.date = d
	return b
}

func (b *VendorBill) SetReferenceNumber(n models.DocNumber) *VendorBill {
	b.referenceNumber = n
	return b
}

func (b *VendorBill) SetDueDate(d models.Date) *VendorBill {
	b.dueDate = d
	return b
}

func (b *VendorBill) SetTerms(t models.PaymentTerms) *VendorBill {
	b.terms = t
	return b
}

func (b *VendorBill) SetMemo(m models.Memo) *VendorBill {
	b.memo = m
	return b
}

// AddLineItem appends an expense line.
func (b *VendorBill) AddLineItem(item BillItem) *VendorBill {
	if !item.Account.IsSet() {
		b.fail(required("line item account"))
		return b
	}
	if !item.Amount.IsSet() {
		b.fail(required("line item amount"))
		return b
	}
	b.items = append(b.items, item)
	b.total = b.total.Add(item.Amount.Value())
	return b
}

// Build returns the bill. Vendor, date and at least one line item are
// required.
func (b *VendorBill) Build() (*models.Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch {
	case b.vendor.IsEmpty():
		return nil, required("vendor")
	case !b.date.IsSet():
		return nil, required("date")
	case len(b.items) == 0:
		return nil, required("line item")
	}

	var (
		lines  []*models.Line
		header *models.Line
	)
	lines, header = appendLine(lines, lineSpec{
		account: models.AccountsPayable,
		amount:  models.NewAmount(b.total.Neg()),
		name:    b.vendor,
		memo:    b.memo,
	})
	if err := header.SetType(models.TxnBill); err != nil {
		return nil, err
	}
	if b.dueDate.IsSet() {
		if err := header.SetDueDate(b.dueDate); err != nil {
			return nil, err
		}
	}
	if !b.terms.IsEmpty() {
		if err := header.SetTerms(b.terms); err != nil {
			return nil, err
		}
	}

	for _, item := range b.items {
		lines, _ = appendLine(lines, lineSpec{
			account: item.Account,
			amount:  item.Amount,
			name:    item.CustomerOrJob,
			memo:    item.Memo,
			class:   item.Class,
		})
	}

	return finish(lines, models.TxnBill, b.date, func(l *models.Line) {
		l.SetDocNumber(b.referenceNumber)
	})
}

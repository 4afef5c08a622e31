package builders

import "github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"

// VendorPayment builds CHECK transactions that pay down Accounts Payable.
// The check is drawn on the charge-to account and marked to be printed.
type VendorPayment struct {
	base
	vendor   models.Name
	amount   models.Amount
	date     models.Date
	chargeTo models.Account
	memo     models.Memo
}

func NewVendorPayment() *VendorPayment {
	return &VendorPayment{}
}

func (b *VendorPayment) SetVendor(n models.Name) *VendorPayment {
	b.vendor = n
	return b
}

// SetAmount sets the check amount. Negative amounts are rejected.
func (b *VendorPayment) SetAmount(a models.Amount) *VendorPayment {
	if err := requireNonNegative("amount", a); err != nil {
		b.fail(err)
		return b
	}
	b.amount = a
	return b
}

func (b *VendorPayment) SetDate(d models.Date) *VendorPayment {
	b.date = d
	return b
}

func (b *VendorPayment) SetChargeToAccount(a models.Account) *VendorPayment {
	b.chargeTo = a
	return b
}

func (b *VendorPayment) SetMemo(m models.Memo) *VendorPayment {
	b.memo = m
	return b
}

// Build returns the check: a credit from the charge-to account followed by
// a debit to Accounts Payable.
func (b *VendorPayment) Build() (*models.Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch {
	case b.vendor.IsEmpty():
		return nil, required("vendor")
	case !b.amount.IsSet():
		return nil, required("amount")
	case !b.date.IsSet():
		return nil, required("date")
	case !b.chargeTo.IsSet():
		return nil, required("charge to account")
	}

	var (
		lines []*models.Line
		check *models.Line
	)
	lines, check = appendLine(lines, lineSpec{
		account: b.chargeTo,
		amount:  b.amount.Neg(),
		name:    b.vendor,
	})
	if err := check.SetType(models.TxnCheck); err != nil {
		return nil, err
	}
	if err := check.SetNeedsToBePrinted(models.BooleanTrue); err != nil {
		return nil, err
	}

	lines, _ = appendLine(lines, lineSpec{
		account: models.AccountsPayable,
		amount:  b.amount,
		name:    b.vendor,
	})

	return finish(lines, models.TxnCheck, b.date, func(l *models.Line) {
		l.SetMemo(b.memo)
	})
}

package builders

import "github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"

// CustomerPayment builds PAYMENT transactions: the deposit account is
// debited and Accounts Receivable is credited for the same customer.
type CustomerPayment struct {
	base
	customer        models.Name
	amount          models.Amount
	date            models.Date
	paymentMethod   models.PaymentMethod
	referenceNumber models.DocNumber
	memo            models.Memo
	depositTo       models.Account
}

func NewCustomerPayment() *CustomerPayment {
	return &CustomerPayment{}
}

func (b *CustomerPayment) SetCustomer(n models.Name) *CustomerPayment {
	b.customer = n
	return b
}

// SetAmount sets the amount received. Negative amounts are rejected.
func (b *CustomerPayment) SetAmount(a models.Amount) *CustomerPayment {
	if err := requireNonNegative("amount", a); err != nil {
		b.fail(err)
		return b
	}
	b.amount = a
	return b
}

func (b *CustomerPayment) SetDate(d models.Date) *CustomerPayment {
	b.date = d
	return b
}

func (b *CustomerPayment) SetPaymentMethod(p models.PaymentMethod) *CustomerPayment {
	b.paymentMethod = p
	return b
}

func (b *CustomerPayment) SetReferenceNumber(n models.DocNumber) *CustomerPayment {
	b.referenceNumber = n
	return b
}

func (b *CustomerPayment) SetMemo(m models.Memo) *CustomerPayment {
	b.memo = m
	return b
}

func (b *CustomerPayment) SetDepositTo(a models.Account) *CustomerPayment {
	b.depositTo = a
	return b
}

// Build returns the two-line payment transaction.
func (b *CustomerPayment) Build() (*models.Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch {
	case b.customer.IsEmpty():
		return nil, required("customer")
	case !b.amount.IsSet():
		return nil, required("amount")
	case !b.date.IsSet():
		return nil, required("date")
	case !b.depositTo.IsSet():
		return nil, required("deposit to")
	}

	var lines []*models.Line
	lines, _ = appendLine(lines, lineSpec{
		account: b.depositTo,
		amount:  b.amount,
		name:    b.customer,
		memo:    b.memo,
	})
	lines, _ = appendLine(lines, lineSpec{
		account: models.AccountsReceivable,
		amount:  b.amount.Neg(),
		name:    b.customer,
		memo:    b.memo,
	})

	return finish(lines, models.TxnPayment, b.date, func(l *models.Line) {
		l.SetDocNumber(b.referenceNumber)
		l.SetPaymentMethod(b.paymentMethod)
	})
}

package builders

import (
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"
	"github.com/shopspring/decimal"
)

// Payment is one received payment included in a deposit. Amount must not be
// negative; it is credited from FromAccount (usually Undeposited Funds).
type Payment struct {
	ReceivedFrom  models.Name
	FromAccount   models.Account
	Memo          models.Memo
	CheckNumber   models.DocNumber
	PaymentMethod models.PaymentMethod
	Class         models.TxnClass
	Amount        models.Amount
}

// PaymentDeposit builds DEPOSIT transactions. The deposit account is debited
// for the payment total less any cash back; cash back, when present, is
// debited to its own account.
type PaymentDeposit struct {
	base
	depositTo models.Account
	date      models.Date
	memo      models.Memo

	cashBackAccount models.Account
	cashBackAmount  models.Amount
	cashBackMemo    models.Memo
	hasCashBackMemo bool

	payments []Payment
	total    decimal.Decimal
}

func NewPaymentDeposit() *PaymentDeposit {
	return &PaymentDeposit{total: decimal.Zero}
}

func (b *PaymentDeposit) SetDepositTo(a models.Account) *PaymentDeposit {
	b.depositTo = a
	return b
}

func (b *PaymentDeposit) SetDate(d models.Date) *PaymentDeposit {
	b.date = d
	return b
}

func (b *PaymentDeposit) SetMemo(m models.Memo) *PaymentDeposit {
	b.memo = m
	return b
}

func (b *PaymentDeposit) SetCashBackAccount(a models.Account) *PaymentDeposit {
	b.cashBackAccount = a
	return b
}

func (b *PaymentDeposit) SetCashBackAmount(a models.Amount) *PaymentDeposit {
	if err := requireNonNegative("cash back amount", a); err != nil {
		b.fail(err)
		return b
	}
	b.cashBackAmount = a
	return b
}

func (b *PaymentDeposit) SetCashBackMemo(m models.Memo) *PaymentDeposit {
	b.cashBackMemo = m
	b.hasCashBackMemo = true
	return b
}

// HasCashBack reports whether a cash-back account was given.
func (b *PaymentDeposit) HasCashBack() bool {
	return b.cashBackAccount.IsSet()
}

// PaymentTotal returns the sum of the payments added so far.
func (b *PaymentDeposit) PaymentTotal() decimal.Decimal {
	return b.total
}

// AddPayment appends a received payment.
func (b *PaymentDeposit) AddPayment(p Payment) *PaymentDeposit {
	if !p.FromAccount.IsSet() {
		b.fail(required("payment account"))
		return b
	}
	if err := requireNonNegative("payment amount", p.Amount); err != nil {
		b.fail(err)
		return b
	}
	b.payments = append(b.payments, p)
	b.total = b.total.Add(p.Amount.Value())
	return b
}

// Build returns the deposit: the deposit line, the optional cash-back line,
// then one credit per payment.
func (b *PaymentDeposit) Build() (*models.Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}

	deposit := b.total
	if b.HasCashBack() {
		deposit = deposit.Sub(b.cashBackAmount.Value())
	}

	var lines []*models.Line
	lines, _ = appendLine(lines, lineSpec{
		account: b.depositTo,
		amount:  models.NewAmount(deposit),
		memo:    b.memo,
	})

	if b.HasCashBack() {
		lines, _ = appendLine(lines, lineSpec{
			account: b.cashBackAccount,
			amount:  b.cashBackAmount,
			memo:    b.cashBackMemo,
		})
	}

	for _, p := range b.payments {
		var line *models.Line
		lines, line = appendLine(lines, lineSpec{
			account: p.FromAccount,
			amount:  p.Amount.Neg(),
			name:    p.ReceivedFrom,
			memo:    p.Memo,
			class:   p.Class,
		})
		line.SetDocNumber(p.CheckNumber)
		line.SetPaymentMethod(p.PaymentMethod)
	}

	return finish(lines, models.TxnDeposit, b.date, nil)
}

func (b *PaymentDeposit) validate() error {
	switch {
	case !b.depositTo.IsSet():
		return required("deposit to")
	case !b.date.IsSet():
		return required("date")
	case len(b.payments) == 0:
		return required("payment")
	}

	hasAccount := b.cashBackAccount.IsSet()
	hasAmount := b.cashBackAmount.IsSet()

	if b.hasCashBackMemo {
		if !hasAccount || !hasAmount {
			return iiferr.InvalidValue("cash back", "",
				"when cash back memo, account, or amount has a value, all must have a value")
		}
	} else if hasAccount != hasAmount {
		return iiferr.InvalidValue("cash back", "",
			"if either cash back account or amount has a value, both must have a value")
	}

	if hasAmount && iifutil.CompareMoney(b.cashBackAmount.Value(), b.total) > 0 {
		return iiferr.InvalidValue("cash back amount", b.cashBackAmount.IIF(),
			"cash back cannot exceed the payment total "+iifutil.FormatMoney(b.total))
	}
	return nil
}

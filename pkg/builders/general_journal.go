package builders

import "github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"

// JournalLine is one debit (positive) or credit (negative) of a journal
// entry. Name, Memo and Class may be left as their empty values.
type JournalLine struct {
	Account models.Account
	Amount  models.Amount
	Name    models.Name
	Memo    models.Memo
	Class   models.TxnClass
}

// GeneralJournal builds GENERAL JOURNAL transactions.
type GeneralJournal struct {
	base
	date        models.Date
	entryNumber models.DocNumber
	lines       []*models.Line
}

// NewGeneralJournal creates an empty journal entry builder.
func NewGeneralJournal() *GeneralJournal {
	return &GeneralJournal{}
}

func (b *GeneralJournal) SetDate(date models.Date) *GeneralJournal {
	b.date = date
	return b
}

func (b *GeneralJournal) SetEntryNumber(n models.DocNumber) *GeneralJournal {
	b.entryNumber = n
	return b
}

// AddLine appends a journal line. The first line becomes the TRNS row.
func (b *GeneralJournal) AddLine(l JournalLine) *GeneralJournal {
	if !l.Account.IsSet() {
		b.fail(required("account"))
		return b
	}
	if !l.Amount.IsSet() {
		b.fail(required("amount"))
		return b
	}
	b.lines, _ = appendLine(b.lines, lineSpec{
		account: l.Account,
		amount:  l.Amount,
		name:    l.Name,
		memo:    l.Memo,
		class:   l.Class,
	})
	return b
}

// Build returns the journal entry. Date and entry number are required.
func (b *GeneralJournal) Build() (*models.Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.date.IsSet() {
		return nil, required("date")
	}
	if b.entryNumber.IsEmpty() {
		return nil, required("entry number")
	}
	return finish(b.lines, models.TxnGeneralJournal, b.date, func(l *models.Line) {
		l.SetDocNumber(b.entryNumber)
	})
}

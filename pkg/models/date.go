package models

import (
	"strings"
	"time"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
)

// DateLayout is the M/D/YYYY layout used on the wire.
const DateLayout = "1/2/2006"

// Date is a calendar date without time of day.
type Date struct {
	t time.Time
}

// NewDate creates a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date in M/D/YYYY form.
func ParseDate(text string) (Date, error) {
	return ParseDateLayout(DateLayout, text)
}

// ParseDateLayout parses a date using a Go time layout.
func ParseDateLayout(layout, text string) (Date, error) {
	t, err := time.Parse(layout, strings.TrimSpace(text))
	if err != nil {
		return Date{}, iiferr.InvalidValue("Date", text, "does not match layout "+layout)
	}
	return DateOf(t), nil
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) IIF() string { return iifutil.EscapeColumn(d.String()) }

func (d Date) IsSet() bool { return !d.t.IsZero() }

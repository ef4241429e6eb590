package core

import (
	"errors"
	"time"
)

const storageLayout = "2006-01-02"

// Date is a civil calendar date at local midnight. Time-of-day never
// carries meaning; serialization stays in the local calendar so a date
// typed by the user never shifts across a timezone boundary.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day. Out-of-range values
// roll over following the calendar, matching time.Date.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// Today returns the current local date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (d Date) Year() int  { return d.Time.Year() }
func (d Date) Month() int { return int(d.Time.Month()) }
func (d Date) Day() int   { return d.Time.Day() }

// AddMonths advances the date by n calendar months keeping the
// day-of-month. When the day does not exist in the target month the
// date rolls into the following month (Jan 31 + 1 month = Mar 2/3).
// This mirrors the occurrence dates the original records were created
// with; see DESIGN.md for the clamp-vs-rollover decision.
func (d Date) AddMonths(n int) Date {
	return NewDate(d.Year(), d.Month()+n, d.Day())
}

// MonthsBetween returns the calendar-month difference from a to b,
// ignoring day-of-month entirely. Negative when b precedes a.
func MonthsBetween(a, b Date) int {
	return (b.Year()-a.Year())*12 + (b.Month() - a.Month())
}

// FormatStorage serializes as "YYYY-MM-DD" in the local calendar.
func (d Date) FormatStorage() string {
	return d.Time.Format(storageLayout)
}

// ParseStorage parses a "YYYY-MM-DD" string as a local-midnight date.
func ParseStorage(s string) (Date, error) {
	t, err := time.ParseInLocation(storageLayout, s, time.Local)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// FormatDisplay renders the date as "DD/MM/YYYY".
func (d Date) FormatDisplay() string {
	return d.Time.Format("02/01/2006")
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year, month int) (first, last Date) {
	first = NewDate(year, month, 1)
	last = NewDate(year, month+1, 0)
	return first, last
}

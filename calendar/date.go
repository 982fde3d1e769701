/*
Package calendar provides the civil-date type and date arithmetic the
scheduling engine runs on, plus weekend/holiday classification and
working-day counting for rotation blocks and months.

All dates are civil dates (year, month, day) in a single program-wide time
zone; there is no notion of time-of-day anywhere in this package. This
avoids the DST hazards of comparing raw epoch timestamps.
*/
package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a civil date: year, month, day, always normalized to midnight UTC.
// Two Dates are equal iff they represent the same calendar day, regardless
// of how they were constructed.
type Date struct {
	t time.Time
}

// NewDate constructs a Date from a year/month/day triple.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime normalizes an arbitrary time.Time down to its civil date.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("calendar: invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) Time() time.Time   { return d.t }
func (d Date) IsZero() bool      { return d.t.IsZero() }

// String renders the date as YYYY-MM-DD, the canonical comparison and
// persistence form called for by the engine's civil-date design note.
func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON encodes the date as its YYYY-MM-DD String form.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// InRange reports whether d falls within [start, end] inclusive.
func (d Date) InRange(start, end Date) bool {
	return d.AfterOrEqual(start) && d.BeforeOrEqual(end)
}

// DaysBetween returns to - from in whole days. Negative if to precedes from.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// Overlaps reports whether [aStart,aEnd] and [bStart,bEnd] (both inclusive)
// share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return aStart.BeforeOrEqual(bEnd) && bStart.BeforeOrEqual(aEnd)
}

// EachDay calls fn for every day in [start,end] inclusive, in ascending
// order. fn cannot stop the iteration early; every day is visited.
func EachDay(start, end Date, fn func(Date)) {
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		fn(d)
	}
}

// InclusiveDays returns the number of days in [start,end], i.e. 1 when
// start == end.
func InclusiveDays(start, end Date) int {
	return DaysBetween(start, end) + 1
}

// EndOfMonth returns the last day of the given calendar month, by
// overflowing into the next month's day 0 the way time.Date normalizes.
func EndOfMonth(year int, month time.Month) Date {
	return FromTime(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
}

// DaysInMonth returns the number of days in the given calendar month.
func DaysInMonth(year int, month time.Month) int {
	return InclusiveDays(NewDate(year, month, 1), EndOfMonth(year, month))
}

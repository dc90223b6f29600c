package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day. Unlike time.Time it keeps a day-of-month that
// overflows its month (2025-02-30) exactly as it was stored, so callers can
// detect and repair it. Arithmetic always works on the clamped value.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a date without normalizing the day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{year: year, month: month, day: day}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// ParseDate parses "YYYY-MM-DD". Days up to 31 are accepted in any month.
// A trailing time component ("2025-01-15T00:00:00Z") is ignored.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	y, errY := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	d, errD := strconv.Atoi(parts[2])

	if errY != nil || errM != nil || errD != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return Date{year: y, month: time.Month(m), day: d}, nil
}

func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}

	return d
}

func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

func (d Date) Year() int { return d.year }

// Day returns the stored day-of-month, which may overflow the month.
func (d Date) Day() int { return d.day }

func (d Date) Month() Month {
	return Month{Year: d.year, Month: d.month}
}

// Valid reports whether the day exists in its month.
func (d Date) Valid() bool {
	return d.day >= 1 && d.day <= d.Month().Days()
}

// Clamp caps the day at the month's last day.
func (d Date) Clamp() Date {
	return d.Month().Day(d.day)
}

// WithDay moves the date to another day of the same month, clamped.
func (d Date) WithDay(day int) Date {
	return d.Month().Day(day)
}

// AddMonths shifts the date by n months keeping the day-of-month, clamped.
func (d Date) AddMonths(n int) Date {
	return d.Month().Add(n).Day(d.day)
}

func (d Date) Time() time.Time {
	c := d.Clamp()
	return time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Compare(other Date) int {
	a, b := d.Clamp(), other.Clamp()

	switch {
	case a.year != b.year:
		return cmpInt(a.year, b.year)
	case a.month != b.month:
		return cmpInt(int(a.month), int(b.month))
	default:
		return cmpInt(a.day, b.day)
	}
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) Equal(other Date) bool {
	return d.Compare(other) == 0
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

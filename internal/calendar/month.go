// Package calendar provides month arithmetic and calendar-day values used by
// the projection engine.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrInvalidMonth = errors.New("invalid month key")

// KeyLayout is the layout of a month key ("YYYY-MM").
const KeyLayout = "2006-01"

// Month is a calendar month with no day component.
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year int, month time.Month) Month {
	return normalize(year, int(month))
}

// MonthOf returns the calendar month t falls in.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "YYYY-MM" key.
func ParseMonth(key string) (Month, error) {
	year, month, ok := strings.Cut(strings.TrimSpace(key), "-")
	if !ok || len(year) != 4 || len(month) != 2 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, key)
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, key)
	}

	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, key)
	}

	return Month{Year: y, Month: time.Month(m)}, nil
}

func normalize(year, month int) Month {
	idx := year*12 + month - 1
	y := idx / 12
	m := idx % 12

	if m < 0 {
		m += 12
		y--
	}

	return Month{Year: y, Month: time.Month(m + 1)}
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Key formats the month as "YYYY-MM".
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) String() string {
	return m.Key()
}

// Add returns the month n months after m (n may be negative).
func (m Month) Add(n int) Month {
	return normalize(m.Year, int(m.Month)+n)
}

// Diff returns the number of whole calendar months from other to m.
func (m Month) Diff(other Month) int {
	return (m.Year-other.Year)*12 + int(m.Month) - int(other.Month)
}

func (m Month) Before(other Month) bool {
	return m.Diff(other) < 0
}

func (m Month) After(other Month) bool {
	return m.Diff(other) > 0
}

func (m Month) Equal(other Month) bool {
	return m.Year == other.Year && m.Month == other.Month
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day returns the given day of the month, capped at the month's last day.
func (m Month) Day(day int) Date {
	return Date{year: m.Year, month: m.Month, day: clampDay(day, m.Days())}
}

func (m Month) First() Date {
	return m.Day(1)
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Name returns the human month name, e.g. "Novembro 2025".
func (m Month) Name() string {
	return fmt.Sprintf("%s %d", title(monthNames[m.Month-1]), m.Year)
}

// Short returns a compact chart label, e.g. "Nov/25".
func (m Month) Short() string {
	name := []rune(monthNames[m.Month-1])
	return fmt.Sprintf("%s/%02d", title(string(name[:3])), m.Year%100)
}

// Casers are stateful, so one is built per call.
func title(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}

func clampDay(day, max int) int {
	if day < 1 {
		return 1
	}

	if day > max {
		return max
	}

	return day
}

// Package competence maps calendar dates to the budget month they are
// accounted against.
package competence

import (
	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

// CutoffDay is the last day-of-month still attributed to the previous month.
// Bills received early in a month belong to the prior budget.
const CutoffDay = 12

// Resolve returns the competence month of a calendar day.
func Resolve(d calendar.Date) calendar.Month {
	c := d.Clamp()
	if c.Day() <= CutoffDay {
		return c.Month().Add(-1)
	}

	return c.Month()
}

// Of returns the competence month of a transaction. An explicit payment month
// always wins over the date rule; an unparsable one falls back to the date.
func Of(tx *transaction.Transaction) calendar.Month {
	if tx.PaymentMonth != "" {
		if m, err := calendar.ParseMonth(tx.PaymentMonth); err == nil {
			return m
		}
	}

	return Resolve(tx.Date)
}

// Key is Of formatted as "YYYY-MM".
func Key(tx *transaction.Transaction) string {
	return Of(tx).Key()
}

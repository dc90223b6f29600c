package projection

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/previsao/internal/competence"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

// Sanitize clamps recurring transactions whose stored day overflows its month
// (day 30 in February) and returns how many were corrected.
func Sanitize(s *ledger.Settings) int {
	fixed := 0

	for _, tx := range s.Transactions {
		if tx.IsVirtual || !tx.IsRecurring || tx.Date.Valid() {
			continue
		}

		clamped := tx.Date.Clamp()
		slog.Info("clamping overflowed recurring date", "transaction_id", tx.ID, "from", tx.Date.String(), "to", clamped.String())

		tx.Date = clamped
		fixed++
	}

	return fixed
}

type seriesKey struct {
	description string
	amount      int64
}

// Heal backfills the missing months of recurring income series. A series is
// every recurring income sharing description and amount; a month counts as
// present when a member is dated in it or already accounts for the
// candidate's competence month, so running Heal again adds nothing.
// Healed clones are appended to s.Transactions and returned.
func Heal(s *ledger.Settings) []*transaction.Transaction {
	var order []seriesKey

	groups := make(map[seriesKey][]*transaction.Transaction)

	for _, tx := range s.Transactions {
		if tx.IsVirtual || !tx.IsRecurring || tx.Type != transaction.TypeIncome {
			continue
		}

		k := seriesKey{description: tx.Description, amount: tx.Amount}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}

		groups[k] = append(groups[k], tx)
	}

	var healed []*transaction.Transaction

	for _, k := range order {
		healed = append(healed, healSeries(groups[k])...)
	}

	s.Transactions = append(s.Transactions, healed...)

	return healed
}

func healSeries(members []*transaction.Transaction) []*transaction.Transaction {
	if len(members) < 2 {
		return nil
	}

	sorted := slices.Clone(members)
	slices.SortStableFunc(sorted, func(a, b *transaction.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	calendarMonths := make(map[string]bool, len(sorted))
	competenceMonths := make(map[string]bool, len(sorted))

	for _, tx := range sorted {
		calendarMonths[tx.Date.Clamp().Month().Key()] = true
		competenceMonths[competence.Key(tx)] = true
	}

	first := sorted[0]
	end := sorted[len(sorted)-1].Date.Clamp().Month()

	var healed []*transaction.Transaction

	for m := first.Date.Clamp().Month().Add(1); m.Before(end); m = m.Add(1) {
		if calendarMonths[m.Key()] {
			continue
		}

		date := m.Day(first.Date.Day())

		comp := competence.Resolve(date)
		if competenceMonths[comp.Key()] {
			continue
		}

		tx := first.Clone()
		tx.ID = uuid.NewString()
		tx.Date = date
		tx.PaymentMonth = comp.Key()

		calendarMonths[m.Key()] = true
		competenceMonths[comp.Key()] = true

		slog.Info("healed recurring series gap", "description", tx.Description, "date", date.String(), "source_id", first.ID)

		healed = append(healed, tx)
	}

	return healed
}

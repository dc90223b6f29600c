// Package projection synthesizes the pending events expected in future months
// from goals, the emergency fund, credit-card purchases and recurring income.
package projection

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/competence"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

const (
	CategoryGoals = "Metas"

	// lookahead bounds the installment scan of open-ended goals.
	lookahead = 12
)

// GoalMatcher reports whether a real transaction already pays goal g.
type GoalMatcher func(tx *transaction.Transaction, g *ledger.Goal) bool

// MatchOwnerOrName matches on the owning goal id or on the goal name appearing
// in the description. Short or common goal names can suppress unrelated
// months; MatchOwner is the identifier-only alternative.
func MatchOwnerOrName(tx *transaction.Transaction, g *ledger.Goal) bool {
	if MatchOwner(tx, g) {
		return true
	}

	return g.Name != "" && strings.Contains(tx.Description, g.Name)
}

func MatchOwner(tx *transaction.Transaction, g *ledger.Goal) bool {
	return tx.InstallmentOf != "" && tx.InstallmentOf == g.ID
}

// ProjectGoal returns the virtual installment of g shown while viewing month
// target, or nil when nothing is owed. The item projected is the one due in
// the month after target and is budgeted against target itself, the same
// month the contribution and duplicate checks look at.
func ProjectGoal(g *ledger.Goal, recorded []*transaction.Transaction, target calendar.Month, match GoalMatcher) *transaction.Transaction {
	if !goalEligible(g, target) {
		return nil
	}

	if contributed(g.History, target, false) >= g.MonthlyInstallment {
		return nil
	}

	if match == nil {
		match = MatchOwnerOrName
	}

	for _, tx := range recorded {
		if !tx.IsVirtual && competence.Of(tx).Equal(target) && match(tx, g) {
			return nil
		}
	}

	due, index, ok := goalDueDate(g, target.Add(1))
	if !ok {
		return nil
	}

	return &transaction.Transaction{
		ID:                 fmt.Sprintf("vgoal_%s_%s", g.ID, target.Key()),
		Description:        goalDescription(g, index),
		Category:           CategoryGoals,
		Amount:             g.MonthlyInstallment,
		Date:               due,
		PaymentMonth:       target.Key(),
		Type:               transaction.TypeExpense,
		Status:             transaction.StatusPending,
		IsInstallment:      g.Type == ledger.GoalDebt,
		CurrentInstallment: index,
		TotalInstallments:  g.TotalInstallments,
		InstallmentOf:      g.ID,
		IsVirtual:          true,
		VirtualType:        transaction.VirtualGoal,
		VirtualID:          g.ID,
	}
}

func goalEligible(g *ledger.Goal, target calendar.Month) bool {
	switch {
	case !g.ShowInPending:
		return false
	case g.Type != ledger.GoalSaving && g.Type != ledger.GoalDebt:
		return false
	case g.MonthlyInstallment <= 0, g.Completed:
		return false
	case g.StartDate != nil && target.Before(g.StartDate.Month()):
		return false
	}

	return !g.Skips(target)
}

// contributed sums the history entries attributed to month. With depositsOnly
// set, withdrawals are ignored.
func contributed(history []ledger.Contribution, month calendar.Month, depositsOnly bool) int64 {
	var sum int64

	for _, c := range history {
		if depositsOnly && !c.IsDeposit() {
			continue
		}

		if contributionMonth(c).Equal(month) {
			sum += c.Amount
		}
	}

	return sum
}

func contributionMonth(c ledger.Contribution) calendar.Month {
	if c.ReferenceMonth != "" {
		if m, err := calendar.ParseMonth(c.ReferenceMonth); err == nil {
			return m
		}
	}

	return competence.Resolve(c.Date)
}

// goalDueDate resolves the due date falling in month next. Installment i is
// due on StartDate + (i-1) months. index is zero when the due date could not be
// tied to an installment.
func goalDueDate(g *ledger.Goal, next calendar.Month) (due calendar.Date, index int, ok bool) {
	if g.StartDate == nil {
		return next.First(), 0, true
	}

	start := *g.StartDate
	estimate := next.Diff(start.Month()) + 1

	last := estimate + lookahead
	if g.TotalInstallments > 0 {
		last = g.TotalInstallments
	}

	for i := max(1, estimate-1); i <= last; i++ {
		candidate := start.AddMonths(i - 1)
		if !candidate.Month().Equal(next) {
			continue
		}

		if g.TotalInstallments > 0 && i > g.TotalInstallments {
			return calendar.Date{}, 0, false
		}

		return candidate, i, true
	}

	if g.Type == ledger.GoalDebt && g.TotalInstallments > 0 && estimate > g.TotalInstallments {
		return calendar.Date{}, 0, false
	}

	return next.First(), 0, true
}

func goalDescription(g *ledger.Goal, index int) string {
	desc := "Economia para a meta: " + g.Name
	if g.Type == ledger.GoalDebt {
		desc = "Pagamento de Dívida: " + g.Name
	}

	if index > 0 && g.TotalInstallments > 0 {
		desc = fmt.Sprintf("%s (%d/%d)", desc, index, g.TotalInstallments)
	}

	return desc
}

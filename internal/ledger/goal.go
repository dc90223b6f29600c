package ledger

import (
	"slices"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
)

// GoalType classifies a goal. Only saving and debt goals are projected.
type GoalType string

const (
	GoalSaving GoalType = "saving"
	GoalDebt   GoalType = "debt"
)

// Goal is a savings or debt target paid in monthly installments.
type Goal struct {
	ID                 string
	Name               string
	Type               GoalType
	MonthlyInstallment int64          // Cents; zero disables projection
	StartDate          *calendar.Date // Due date of the first installment
	TotalInstallments  int            // Zero means open-ended
	Completed          bool
	SkippedMonths      []string
	History            []Contribution
	ShowInPending      bool
}

// ContributionKind distinguishes emergency fund movements. Goal history
// entries leave it empty.
type ContributionKind string

const (
	ContributionDeposit    ContributionKind = "deposit"
	ContributionWithdrawal ContributionKind = "withdrawal"
)

// Contribution is one recorded payment toward a goal or the emergency fund.
type Contribution struct {
	Date           calendar.Date
	Amount         int64
	ReferenceMonth string // Explicit competence month, "YYYY-MM"
	Kind           ContributionKind
}

func (g *Goal) Skips(m calendar.Month) bool {
	return slices.Contains(g.SkippedMonths, m.Key())
}

func (g *Goal) clone() *Goal {
	c := *g
	c.SkippedMonths = slices.Clone(g.SkippedMonths)
	c.History = slices.Clone(g.History)

	if g.StartDate != nil {
		d := *g.StartDate
		c.StartDate = &d
	}

	return &c
}

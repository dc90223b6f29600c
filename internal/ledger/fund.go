package ledger

import (
	"slices"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
)

// EmergencyFund is the single reserve fund of the settings aggregate.
type EmergencyFund struct {
	CurrentBalance      int64
	TargetAmount        int64
	MonthlyContribution int64
	ShowInPending       bool
	SkippedMonths       []string
	History             []Contribution
}

func (f *EmergencyFund) Skips(m calendar.Month) bool {
	return slices.Contains(f.SkippedMonths, m.Key())
}

// Funded reports whether the balance has reached the target.
func (f *EmergencyFund) Funded() bool {
	return f.CurrentBalance >= f.TargetAmount
}

// IsDeposit reports whether a history entry counts toward contributions.
// Entries without a kind predate withdrawals and are deposits.
func (c Contribution) IsDeposit() bool {
	return c.Kind == "" || c.Kind == ContributionDeposit
}

package projection

import (
	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

const (
	CategoryInvestments = "Investimentos"

	FundTransactionID = "vfund_emergency"
	fundVirtualID     = "emergency"
)

// ProjectFund returns the emergency fund contribution owed in month target.
// Unlike goals the fund is a same-month obligation.
func ProjectFund(f *ledger.EmergencyFund, target calendar.Month) *transaction.Transaction {
	switch {
	case !f.ShowInPending, f.MonthlyContribution <= 0, f.Funded(), f.Skips(target):
		return nil
	}

	if contributed(f.History, target, true) >= f.MonthlyContribution {
		return nil
	}

	return &transaction.Transaction{
		ID:           FundTransactionID,
		Description:  "Contribuição para Fundo de Emergência",
		Category:     CategoryInvestments,
		Amount:       f.MonthlyContribution,
		Date:         target.First(),
		PaymentMonth: target.Key(),
		Type:         transaction.TypeExpense,
		Status:       transaction.StatusPending,
		IsVirtual:    true,
		VirtualType:  transaction.VirtualFund,
		VirtualID:    fundVirtualID,
	}
}

// GenerateSavingOpportunities returns every virtual goal and fund entry for
// month, goals first in their stored order.
func GenerateSavingOpportunities(s *ledger.Settings, month calendar.Month, match GoalMatcher) []*transaction.Transaction {
	recorded := s.RealTransactions()

	var out []*transaction.Transaction

	for _, g := range s.Goals {
		if tx := ProjectGoal(g, recorded, month, match); tx != nil {
			out = append(out, tx)
		}
	}

	if tx := ProjectFund(&s.EmergencyFund, month); tx != nil {
		out = append(out, tx)
	}

	return out
}

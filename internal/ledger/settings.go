package ledger

import (
	"slices"

	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

// Settings is the aggregate root persisted by a Repository.
type Settings struct {
	Transactions  []*transaction.Transaction
	Goals         []*Goal
	EmergencyFund EmergencyFund
	CreditCards   []*CreditCard
	SalaryPayday  int // Day-of-month virtual entries are displayed on; zero keeps their dates
}

// Clone returns a deep copy so projections never alias stored records.
func (s *Settings) Clone() *Settings {
	c := &Settings{
		Transactions: make([]*transaction.Transaction, len(s.Transactions)),
		Goals:        make([]*Goal, len(s.Goals)),
		CreditCards:  make([]*CreditCard, len(s.CreditCards)),
		SalaryPayday: s.SalaryPayday,
		EmergencyFund: EmergencyFund{
			CurrentBalance:      s.EmergencyFund.CurrentBalance,
			TargetAmount:        s.EmergencyFund.TargetAmount,
			MonthlyContribution: s.EmergencyFund.MonthlyContribution,
			ShowInPending:       s.EmergencyFund.ShowInPending,
			SkippedMonths:       slices.Clone(s.EmergencyFund.SkippedMonths),
			History:             slices.Clone(s.EmergencyFund.History),
		},
	}

	for i, tx := range s.Transactions {
		c.Transactions[i] = tx.Clone()
	}

	for i, g := range s.Goals {
		c.Goals[i] = g.clone()
	}

	for i, card := range s.CreditCards {
		cc := *card
		c.CreditCards[i] = &cc
	}

	return c
}

// RealTransactions returns the stored, non-virtual transactions.
func (s *Settings) RealTransactions() []*transaction.Transaction {
	out := make([]*transaction.Transaction, 0, len(s.Transactions))

	for _, tx := range s.Transactions {
		if !tx.IsVirtual {
			out = append(out, tx)
		}
	}

	return out
}

func (s *Settings) Transaction(id string) *transaction.Transaction {
	for _, tx := range s.Transactions {
		if tx.ID == id {
			return tx
		}
	}

	return nil
}

func (s *Settings) Goal(id string) *Goal {
	for _, g := range s.Goals {
		if g.ID == id {
			return g
		}
	}

	return nil
}

func (s *Settings) Card(id string) *CreditCard {
	for _, c := range s.CreditCards {
		if c.ID == id {
			return c
		}
	}

	return nil
}

package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

// document is the persisted shape of the settings aggregate. Amounts are
// decimal currency units ("150.00"), the domain keeps cents.
type document struct {
	Transactions  []transactionDoc `json:"transactions"`
	Goals         []goalDoc        `json:"goals"`
	EmergencyFund fundDoc          `json:"emergencyFund"`
	CreditCards   []cardDoc        `json:"creditCards"`
	SalaryPayday  int              `json:"salaryPayday,omitempty"`
}

type transactionDoc struct {
	ID                 string             `json:"id"`
	Description        string             `json:"description"`
	Category           string             `json:"category,omitempty"`
	Amount             decimal.Decimal    `json:"amount"`
	Date               calendar.Date      `json:"date"`
	PaymentMonth       string             `json:"paymentMonth,omitempty"`
	Type               transaction.Type   `json:"type"`
	Status             transaction.Status `json:"status"`
	IsRecurring        bool               `json:"isRecurring,omitempty"`
	IsInstallment      bool               `json:"isInstallment,omitempty"`
	CurrentInstallment int                `json:"currentInstallment,omitempty"`
	TotalInstallments  int                `json:"totalInstallments,omitempty"`
	InstallmentOf      string             `json:"installmentOf,omitempty"`
	CardID             string             `json:"cardId,omitempty"`

	// Only read, so synthesized entries found in a backup can be dropped.
	IsVirtual   bool                    `json:"isVirtual,omitempty"`
	VirtualType transaction.VirtualType `json:"virtualType,omitempty"`
}

type contributionDoc struct {
	Date           calendar.Date           `json:"date"`
	Amount         decimal.Decimal         `json:"amount"`
	ReferenceMonth string                  `json:"referenceMonth,omitempty"`
	Kind           ledger.ContributionKind `json:"type,omitempty"`
}

type goalDoc struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Type               ledger.GoalType   `json:"type"`
	GoalType           ledger.GoalType   `json:"goalType,omitempty"`
	MonthlyInstallment decimal.Decimal   `json:"monthlyInstallment"`
	StartDate          *calendar.Date    `json:"startDate,omitempty"`
	TotalInstallments  int               `json:"totalInstallments,omitempty"`
	Completed          bool              `json:"completed,omitempty"`
	SkippedMonths      []string          `json:"skippedMonths,omitempty"`
	History            []contributionDoc `json:"history,omitempty"`
	ShowInPending      bool              `json:"showInPending"`
}

type fundDoc struct {
	CurrentBalance      decimal.Decimal   `json:"currentBalance"`
	TargetAmount        decimal.Decimal   `json:"targetAmount"`
	MonthlyContribution decimal.Decimal   `json:"monthlyContribution"`
	ShowInPending       bool              `json:"showInPending"`
	SkippedMonths       []string          `json:"skippedMonths,omitempty"`
	History             []contributionDoc `json:"history,omitempty"`
}

type cardDoc struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClosingDay int    `json:"closingDay"`
	DueDay     int    `json:"dueDay"`
	DueDate    int    `json:"dueDate,omitempty"`
}

func toDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// Encode serializes s. Virtual transactions are never written.
func Encode(s *ledger.Settings) ([]byte, error) {
	doc := document{
		Transactions: make([]transactionDoc, 0, len(s.Transactions)),
		Goals:        make([]goalDoc, 0, len(s.Goals)),
		CreditCards:  make([]cardDoc, 0, len(s.CreditCards)),
		SalaryPayday: s.SalaryPayday,
		EmergencyFund: fundDoc{
			CurrentBalance:      toDecimal(s.EmergencyFund.CurrentBalance),
			TargetAmount:        toDecimal(s.EmergencyFund.TargetAmount),
			MonthlyContribution: toDecimal(s.EmergencyFund.MonthlyContribution),
			ShowInPending:       s.EmergencyFund.ShowInPending,
			SkippedMonths:       s.EmergencyFund.SkippedMonths,
			History:             encodeHistory(s.EmergencyFund.History),
		},
	}

	for _, tx := range s.RealTransactions() {
		doc.Transactions = append(doc.Transactions, transactionDoc{
			ID:                 tx.ID,
			Description:        tx.Description,
			Category:           tx.Category,
			Amount:             toDecimal(tx.Amount),
			Date:               tx.Date,
			PaymentMonth:       tx.PaymentMonth,
			Type:               tx.Type,
			Status:             tx.Status,
			IsRecurring:        tx.IsRecurring,
			IsInstallment:      tx.IsInstallment,
			CurrentInstallment: tx.CurrentInstallment,
			TotalInstallments:  tx.TotalInstallments,
			InstallmentOf:      tx.InstallmentOf,
			CardID:             tx.CardID,
		})
	}

	for _, g := range s.Goals {
		doc.Goals = append(doc.Goals, goalDoc{
			ID:                 g.ID,
			Name:               g.Name,
			Type:               g.Type,
			MonthlyInstallment: toDecimal(g.MonthlyInstallment),
			StartDate:          g.StartDate,
			TotalInstallments:  g.TotalInstallments,
			Completed:          g.Completed,
			SkippedMonths:      g.SkippedMonths,
			History:            encodeHistory(g.History),
			ShowInPending:      g.ShowInPending,
		})
	}

	for _, c := range s.CreditCards {
		doc.CreditCards = append(doc.CreditCards, cardDoc{ID: c.ID, Name: c.Name, ClosingDay: c.ClosingDay, DueDay: c.DueDay})
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}

	return b, nil
}

func encodeHistory(history []ledger.Contribution) []contributionDoc {
	if len(history) == 0 {
		return nil
	}

	out := make([]contributionDoc, len(history))
	for i, c := range history {
		out[i] = contributionDoc{Date: c.Date, Amount: toDecimal(c.Amount), ReferenceMonth: c.ReferenceMonth, Kind: c.Kind}
	}

	return out
}

// Decode parses a settings document. An empty input yields empty settings.
func Decode(b []byte) (*ledger.Settings, error) {
	s := &ledger.Settings{}
	if len(b) == 0 {
		return s, nil
	}

	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}

	s.SalaryPayday = doc.SalaryPayday
	s.EmergencyFund = ledger.EmergencyFund{
		CurrentBalance:      toCents(doc.EmergencyFund.CurrentBalance),
		TargetAmount:        toCents(doc.EmergencyFund.TargetAmount),
		MonthlyContribution: toCents(doc.EmergencyFund.MonthlyContribution),
		ShowInPending:       doc.EmergencyFund.ShowInPending,
		SkippedMonths:       doc.EmergencyFund.SkippedMonths,
		History:             decodeHistory(doc.EmergencyFund.History),
	}

	for _, t := range doc.Transactions {
		if t.IsVirtual || t.VirtualType != "" {
			continue
		}

		s.Transactions = append(s.Transactions, &transaction.Transaction{
			ID:                 t.ID,
			Description:        t.Description,
			Category:           t.Category,
			Amount:             toCents(t.Amount),
			Date:               t.Date,
			PaymentMonth:       t.PaymentMonth,
			Type:               t.Type,
			Status:             t.Status,
			IsRecurring:        t.IsRecurring,
			IsInstallment:      t.IsInstallment,
			CurrentInstallment: t.CurrentInstallment,
			TotalInstallments:  t.TotalInstallments,
			InstallmentOf:      t.InstallmentOf,
			CardID:             t.CardID,
		})
	}

	for _, g := range doc.Goals {
		s.Goals = append(s.Goals, &ledger.Goal{
			ID:                 g.ID,
			Name:               g.Name,
			Type:               goalType(g),
			MonthlyInstallment: toCents(g.MonthlyInstallment),
			StartDate:          g.StartDate,
			TotalInstallments:  g.TotalInstallments,
			Completed:          g.Completed,
			SkippedMonths:      g.SkippedMonths,
			History:            decodeHistory(g.History),
			ShowInPending:      g.ShowInPending,
		})
	}

	for _, c := range doc.CreditCards {
		due := c.DueDay
		if due == 0 {
			due = c.DueDate
		}

		s.CreditCards = append(s.CreditCards, &ledger.CreditCard{ID: c.ID, Name: c.Name, ClosingDay: c.ClosingDay, DueDay: due})
	}

	return s, nil
}

// goalType accepts both "type" and "goalType" keys, in any case.
func goalType(g goalDoc) ledger.GoalType {
	t := g.Type
	if t == "" {
		t = g.GoalType
	}

	return ledger.GoalType(strings.ToLower(string(t)))
}

func decodeHistory(history []contributionDoc) []ledger.Contribution {
	if len(history) == 0 {
		return nil
	}

	out := make([]ledger.Contribution, len(history))
	for i, c := range history {
		out[i] = ledger.Contribution{Date: c.Date, Amount: toCents(c.Amount), ReferenceMonth: c.ReferenceMonth, Kind: c.Kind}
	}

	return out
}

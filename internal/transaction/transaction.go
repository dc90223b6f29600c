package transaction

import (
	"github.com/MrJamesThe3rd/previsao/internal/calendar"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Status represents whether a transaction has been settled.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// VirtualType tags which projector synthesized a virtual transaction.
type VirtualType string

const (
	VirtualGoal VirtualType = "goal"
	VirtualFund VirtualType = "fund"
	VirtualBill VirtualType = "bill"
)

// Transaction represents a monetary event. Real transactions are owned by the
// settings aggregate; virtual ones only live for one projection pass.
type Transaction struct {
	ID           string
	Description  string
	Category     string
	Amount       int64 // Amount in cents, never negative
	Date         calendar.Date
	PaymentMonth string // Competence month override, "YYYY-MM"
	Type         Type
	Status       Status

	IsRecurring        bool
	IsInstallment      bool
	CurrentInstallment int
	TotalInstallments  int
	InstallmentOf      string // Owning goal or debt
	CardID             string

	IsVirtual   bool
	VirtualType VirtualType
	VirtualID   string
}

// Clone returns a shallow copy; Transaction holds no reference fields.
func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}

// Signed returns the amount with income positive and expense negative.
func (t *Transaction) Signed() int64 {
	if t.Type == TypeIncome {
		return t.Amount
	}

	return -t.Amount
}

func (t *Transaction) IsPending() bool {
	return t.Status == StatusPending
}

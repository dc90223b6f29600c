package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

func purchase(id, cardID, d string, amount int64) *transaction.Transaction {
	return &transaction.Transaction{
		ID:     id,
		Amount: amount,
		Date:   date(d),
		Type:   transaction.TypeExpense,
		Status: transaction.StatusPending,
		CardID: cardID,
	}
}

func TestBillDueDate(t *testing.T) {
	type testCase struct {
		name     string
		card     ledger.CreditCard
		purchase string
		want     string
	}

	tests := []testCase{
		{name: "BeforeClosing", card: ledger.CreditCard{ClosingDay: 20, DueDay: 10}, purchase: "2025-03-05", want: "2025-03-10"},
		{name: "OnClosingDayRolls", card: ledger.CreditCard{ClosingDay: 20, DueDay: 10}, purchase: "2025-03-20", want: "2025-04-10"},
		{name: "AfterClosing", card: ledger.CreditCard{ClosingDay: 20, DueDay: 10}, purchase: "2025-03-25", want: "2025-04-10"},
		{name: "YearRollover", card: ledger.CreditCard{ClosingDay: 20, DueDay: 10}, purchase: "2025-12-28", want: "2026-01-10"},
		{name: "DueDayClampsToMonthEnd", card: ledger.CreditCard{ClosingDay: 20, DueDay: 31}, purchase: "2025-02-01", want: "2025-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projection.BillDueDate(&tt.card, date(tt.purchase))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAggregateBills(t *testing.T) {
	cards := []*ledger.CreditCard{{ID: "c1", Name: "Nubank", ClosingDay: 20, DueDay: 10}}

	bills := projection.AggregateBills([]*transaction.Transaction{
		purchase("p2", "c1", "2025-03-25", 5000),
		purchase("p1", "c1", "2025-03-05", 15000),
	}, cards)
	require.Len(t, bills, 2)

	assert.Equal(t, "bill-c1-2025-03", bills[0].ID)
	assert.Equal(t, "2025-03-10", bills[0].Date.String())
	assert.Equal(t, "2025-02", bills[0].PaymentMonth)
	assert.Equal(t, int64(15000), bills[0].Amount)

	assert.Equal(t, "bill-c1-2025-04", bills[1].ID)
	assert.Equal(t, "2025-04-10", bills[1].Date.String())
	assert.Equal(t, "2025-03", bills[1].PaymentMonth)
	assert.Equal(t, int64(5000), bills[1].Amount)

	for _, b := range bills {
		assert.True(t, b.IsVirtual)
		assert.Equal(t, transaction.VirtualBill, b.VirtualType)
		assert.Equal(t, transaction.StatusPending, b.Status)
		assert.Equal(t, "Fatura Cartão", b.Category)
		assert.Equal(t, "c1", b.CardID)
	}
}

func TestAggregateBills_SumsOneBillPerCycle(t *testing.T) {
	cards := []*ledger.CreditCard{
		{ID: "c1", Name: "Nubank", ClosingDay: 20, DueDay: 10},
		{ID: "c2", Name: "Inter", ClosingDay: 5, DueDay: 15},
	}

	bills := projection.AggregateBills([]*transaction.Transaction{
		purchase("p1", "c1", "2025-03-01", 1000),
		purchase("p2", "c1", "2025-03-10", 2550),
		purchase("p3", "c1", "2025-03-19", 449),
		purchase("p4", "c2", "2025-03-01", 700),
	}, cards)
	require.Len(t, bills, 2)

	assert.Equal(t, "bill-c1-2025-03", bills[0].ID)
	assert.Equal(t, int64(3999), bills[0].Amount)
	assert.Equal(t, "bill-c2-2025-03", bills[1].ID)
	assert.Equal(t, int64(700), bills[1].Amount)
}

func TestAggregateBills_SkipsUnknownCard(t *testing.T) {
	cards := []*ledger.CreditCard{{ID: "c1", Name: "Nubank", ClosingDay: 20, DueDay: 10}}

	bills := projection.AggregateBills([]*transaction.Transaction{
		purchase("p1", "gone", "2025-03-05", 15000),
		purchase("p2", "c1", "2025-03-05", 1000),
	}, cards)
	require.Len(t, bills, 1)

	assert.Equal(t, int64(1000), bills[0].Amount)
}

func TestAggregateBills_Empty(t *testing.T) {
	assert.Empty(t, projection.AggregateBills(nil, nil))
}

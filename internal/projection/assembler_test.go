package projection_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/competence"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

var now = time.Date(2025, time.October, 16, 9, 30, 0, 0, time.UTC)

func expense(id, desc, category, d string, amount int64, status transaction.Status) *transaction.Transaction {
	return &transaction.Transaction{
		ID:          id,
		Description: desc,
		Category:    category,
		Amount:      amount,
		Date:        date(d),
		Type:        transaction.TypeExpense,
		Status:      status,
	}
}

func household() *ledger.Settings {
	deferred := expense("a4", "Seguro", "Seguros", "2026-06-15", 9000, transaction.StatusPending)
	deferred.PaymentMonth = "2026-06"

	return &ledger.Settings{
		Transactions: []*transaction.Transaction{
			salary("s1", "2025-08-20", 500000),
			salary("s2", "2025-10-20", 500000),
			expense("a1", "Aluguel", "Moradia", "2025-11-20", 150000, transaction.StatusPending),
			expense("a2", "Conta de luz", "Moradia", "2025-12-05", 20000, transaction.StatusPending),
			expense("a3", "Mercado", "Alimentação", "2025-11-25", 5000, transaction.StatusPaid),
			deferred,
			purchase("p1", "c1", "2025-11-05", 30000),
			purchase("p2", "c1", "2025-11-22", 10000),
		},
		Goals:         []*ledger.Goal{carro()},
		EmergencyFund: ledger.EmergencyFund{TargetAmount: 100000, MonthlyContribution: 10000, ShowInPending: true},
		CreditCards:   []*ledger.CreditCard{{ID: "c1", Name: "Nubank", ClosingDay: 20, DueDay: 10}},
		SalaryPayday:  5,
	}
}

func ids(txs []*transaction.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}

	return out
}

func TestProject_PendingWindow(t *testing.T) {
	res := projection.Project(household(), now, projection.Filter{}, projection.Options{})
	require.Len(t, res.Pending, 10)

	got := ids(res.Pending)
	assert.Contains(t, got, "a1")
	assert.Contains(t, got, "a2")
	assert.Contains(t, got, "bill-c1-2025-12")
	assert.Contains(t, got, "vgoal_g1_2025-11")
	assert.NotContains(t, got, "a3", "paid")
	assert.NotContains(t, got, "a4", "beyond the window")
	assert.NotContains(t, got, "bill-c1-2025-11", "owed in the current month")
	assert.NotContains(t, got, "p1")
	assert.NotContains(t, got, "p2")

	first := res.Pending[0]
	assert.Equal(t, projection.FundTransactionID, first.ID)
	assert.Equal(t, "2025-11-05", first.Date.String())

	last := res.Pending[len(res.Pending)-1]
	assert.Equal(t, "2026-04", last.PaymentMonth)

	for i := 1; i < len(res.Pending); i++ {
		prev, cur := res.Pending[i-1], res.Pending[i]
		d := competence.Of(prev).Diff(competence.Of(cur))
		assert.LessOrEqual(t, d, 0)

		if d == 0 {
			assert.LessOrEqual(t, prev.Date.Compare(cur.Date), 0)
		}
	}

	for _, tx := range res.Pending {
		assert.NotEmpty(t, tx.PaymentMonth)
		assert.Equal(t, transaction.StatusPending, tx.Status)
	}
}

func TestProject_PaydayOverridesVirtualDates(t *testing.T) {
	res := projection.Project(household(), now, projection.Filter{Category: projection.CategoryGoals}, projection.Options{})
	require.Len(t, res.Pending, 1)

	goal := res.Pending[0]
	assert.Equal(t, "2025-12-05", goal.Date.String())
	assert.Equal(t, "2025-11", goal.PaymentMonth)
	assert.Equal(t, "Pagamento de Dívida: Carro (12/12)", goal.Description)
}

func TestProject_FallbackPayday(t *testing.T) {
	s := household()
	s.SalaryPayday = 0

	res := projection.Project(s, now, projection.Filter{Category: projection.CategoryGoals}, projection.Options{FallbackPayday: 7})
	require.Len(t, res.Pending, 1)
	assert.Equal(t, "2025-12-07", res.Pending[0].Date.String())

	res = projection.Project(s, now, projection.Filter{Category: projection.CategoryGoals}, projection.Options{})
	require.Len(t, res.Pending, 1)
	assert.Equal(t, "2025-12-15", res.Pending[0].Date.String())
}

func TestProject_OpenEndedSavingGoal(t *testing.T) {
	viagem := &ledger.Goal{ID: "g2", Name: "Viagem", Type: ledger.GoalSaving, MonthlyInstallment: 20000, ShowInPending: true}
	filter := projection.Filter{Category: projection.CategoryGoals}

	t.Run("EveryProjectedMonthIsPending", func(t *testing.T) {
		s := &ledger.Settings{Goals: []*ledger.Goal{viagem}}

		res := projection.Project(s, now, filter, projection.Options{})
		require.Len(t, res.Pending, 6)

		for i, tx := range res.Pending {
			target := calendar.NewMonth(2025, time.November).Add(i)
			assert.Equal(t, target.Key(), tx.PaymentMonth)
			assert.Equal(t, target.Add(1).First(), tx.Date)
		}
	})

	t.Run("RecordedPaymentClearsItsMonth", func(t *testing.T) {
		paid := expense("r1", "Depósito", "Metas", "2025-11-20", 20000, transaction.StatusPaid)
		paid.InstallmentOf = "g2"

		s := &ledger.Settings{Transactions: []*transaction.Transaction{paid}, Goals: []*ledger.Goal{viagem}}

		res := projection.Project(s, now, filter, projection.Options{})
		require.Len(t, res.Pending, 5)

		for _, tx := range res.Pending {
			assert.NotEqual(t, "2025-11", tx.PaymentMonth)
		}

		assert.NotContains(t, ids(res.Pending), "vgoal_g2_2025-11")
		assert.Equal(t, "2025-12", res.Pending[0].PaymentMonth)
	})
}

func TestProject_Filters(t *testing.T) {
	jan := calendar.NewMonth(2026, time.January)

	type testCase struct {
		name   string
		filter projection.Filter
		want   int
	}

	tests := []testCase{
		{name: "NoFilter", filter: projection.Filter{}, want: 10},
		{name: "TextIsCaseInsensitive", filter: projection.Filter{Text: "fundo"}, want: 6},
		{name: "TextMatchesGoal", filter: projection.Filter{Text: "CARRO"}, want: 1},
		{name: "Category", filter: projection.Filter{Category: "Moradia"}, want: 2},
		{name: "Month", filter: projection.Filter{Month: &jan}, want: 1},
		{name: "CategoryAndText", filter: projection.Filter{Category: "Moradia", Text: "luz"}, want: 1},
		{name: "NoMatch", filter: projection.Filter{Text: "viagem"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := projection.Project(household(), now, tt.filter, projection.Options{})
			assert.Len(t, res.Pending, tt.want)
		})
	}
}

func TestProject_MonthlyNetTotals(t *testing.T) {
	res := projection.Project(household(), now, projection.Filter{}, projection.Options{})
	require.Len(t, res.MonthlyNetTotals, 6)

	labels := make([]string, 0, 6)
	nets := make([]int64, 0, 6)

	for _, m := range res.MonthlyNetTotals {
		labels = append(labels, m.Label)
		nets = append(nets, m.Net)
	}

	assert.Equal(t, []string{"Out/25", "Nov/25", "Dez/25", "Jan/26", "Fev/26", "Mar/26"}, labels)
	assert.Equal(t, []int64{470000, -245000, -10000, -10000, -10000, -10000}, nets)
	assert.Equal(t, "2025-10", res.MonthlyNetTotals[0].Month.Key())
}

func TestProject_MonthlyNetTotalsIgnoreMonthFilter(t *testing.T) {
	jan := calendar.NewMonth(2026, time.January)

	res := projection.Project(household(), now, projection.Filter{Category: projection.CategoryGoals, Month: &jan}, projection.Options{})

	assert.Empty(t, res.Pending)
	assert.Equal(t, int64(-50000), res.MonthlyNetTotals[1].Net)
	assert.Equal(t, int64(0), res.MonthlyNetTotals[0].Net)
}

func TestProject_DoesNotMutateSettings(t *testing.T) {
	s := household()
	before := s.Clone()

	projection.Project(s, now, projection.Filter{}, projection.Options{})

	assert.Equal(t, before, s)
	assert.Empty(t, s.Transactions[2].PaymentMonth)
}

func newAssembler(t *testing.T, repo *ledger.MockRepository, opts ...projection.Option) (*projection.Assembler, *ledger.Service) {
	t.Helper()

	repo.EXPECT().Load(gomock.Any()).Return(household(), nil)

	svc := ledger.NewService(repo, nil)
	require.NoError(t, svc.Load(context.Background()))

	opts = append([]projection.Option{projection.WithClock(func() time.Time { return now })}, opts...)

	return projection.NewAssembler(svc, opts...), svc
}

func TestAssembler_AssembleIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	a, svc := newAssembler(t, repo)

	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *ledger.Settings) error {
			assert.Len(t, s.Transactions, 9)
			return nil
		}).
		Times(1)

	first, err := a.Assemble(context.Background(), projection.Filter{})
	require.NoError(t, err)

	count := len(svc.Snapshot().RealTransactions())
	assert.Equal(t, 9, count)

	second, err := a.Assemble(context.Background(), projection.Filter{})
	require.NoError(t, err)

	assert.Len(t, svc.Snapshot().RealTransactions(), count)
	assert.Equal(t, ids(first.Pending), ids(second.Pending))
	assert.Equal(t, first.MonthlyNetTotals, second.MonthlyNetTotals)
}

func TestAssembler_Repair(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	a, svc := newAssembler(t, repo)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	res, err := a.Repair(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Healed)
	assert.Equal(t, 0, res.Sanitized)
	assert.Equal(t, 2, res.Passes)
	assert.True(t, res.Changed())

	var healed *transaction.Transaction

	for _, tx := range svc.Snapshot().Transactions {
		if tx.Date.String() == "2025-09-20" {
			healed = tx
		}
	}

	require.NotNil(t, healed)
	assert.Equal(t, "2025-09", healed.PaymentMonth)
	assert.Equal(t, "Salário", healed.Description)

	res, err = a.Repair(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, 1, res.Passes)
}

func TestAssembler_ConcurrentRepairsSaveOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	a, svc := newAssembler(t, repo)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := a.Assemble(context.Background(), projection.Filter{})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	assert.Len(t, svc.Snapshot().Transactions, 9)
}

func TestAssembler_SaveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	a, _ := newAssembler(t, repo)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	res, err := a.Assemble(context.Background(), projection.Filter{})
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestAssembler_SettleDelayHonoursContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	a, _ := newAssembler(t, repo, projection.WithSettleDelay(time.Hour))

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Repair(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembler_Opportunities(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a, _ := newAssembler(t, ledger.NewMockRepository(ctrl))

	got := a.Opportunities(calendar.NewMonth(2025, time.November))
	require.Len(t, got, 2)

	assert.Equal(t, "vgoal_g1_2025-11", got[0].ID)
	assert.Equal(t, projection.FundTransactionID, got[1].ID)
	assert.Equal(t, now, a.Now())
}

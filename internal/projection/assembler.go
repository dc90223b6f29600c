package projection

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/competence"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

const (
	// projectedMonths is how many months ahead goals and the fund are projected.
	projectedMonths = 6
	// pendingMonths bounds the pending list to [now+1, now+pendingMonths).
	pendingMonths = 7
	// chartMonths is the number of buckets starting at the current month.
	chartMonths = 6

	maxRepairPasses = 5
)

// Filter narrows the pending list. Text and Category also apply to the chart.
type Filter struct {
	Text     string
	Category string
	Month    *calendar.Month
}

type MonthlyTotal struct {
	Month calendar.Month
	Label string
	Net   int64 // Income minus expenses, in cents
}

type Result struct {
	Pending          []*transaction.Transaction
	MonthlyNetTotals []MonthlyTotal
}

type Options struct {
	Match GoalMatcher
	// FallbackPayday is used when the settings carry no salary payday.
	FallbackPayday int
}

// Project assembles the display set from a settings snapshot. It never
// mutates s; backfilled payment months are set on copies.
func Project(s *ledger.Settings, now time.Time, f Filter, opts Options) *Result {
	current := calendar.MonthOf(now)

	payday := s.SalaryPayday
	if payday <= 0 {
		payday = opts.FallbackPayday
	}

	all := s.RealTransactions()

	for i := 1; i <= projectedMonths; i++ {
		for _, tx := range GenerateSavingOpportunities(s, current.Add(i), opts.Match) {
			if payday > 0 {
				tx.Date = tx.Date.WithDay(payday)
			}

			all = append(all, tx)
		}
	}

	var cardPurchases, display []*transaction.Transaction

	for _, tx := range all {
		if tx.CardID != "" && tx.IsPending() {
			cardPurchases = append(cardPurchases, tx)
			continue
		}

		c := tx.Clone()
		if c.PaymentMonth == "" {
			c.PaymentMonth = competence.Resolve(c.Date).Key()
		}

		display = append(display, c)
	}

	display = append(display, AggregateBills(cardPurchases, s.CreditCards)...)

	return &Result{
		Pending:          pendingList(display, current, f),
		MonthlyNetTotals: monthlyNetTotals(display, current, f),
	}
}

func pendingList(display []*transaction.Transaction, current calendar.Month, f Filter) []*transaction.Transaction {
	from, until := current.Add(1), current.Add(pendingMonths)

	var out []*transaction.Transaction

	for _, tx := range display {
		if !tx.IsPending() || !f.matches(tx) {
			continue
		}

		comp := competence.Of(tx)
		if comp.Before(from) || !comp.Before(until) {
			continue
		}

		if f.Month != nil && !comp.Equal(*f.Month) {
			continue
		}

		out = append(out, tx)
	}

	slices.SortStableFunc(out, func(a, b *transaction.Transaction) int {
		if d := competence.Of(a).Diff(competence.Of(b)); d != 0 {
			return d
		}

		return a.Date.Compare(b.Date)
	})

	return out
}

func monthlyNetTotals(display []*transaction.Transaction, current calendar.Month, f Filter) []MonthlyTotal {
	totals := make([]MonthlyTotal, chartMonths)
	for i := range totals {
		m := current.Add(i)
		totals[i] = MonthlyTotal{Month: m, Label: m.Short()}
	}

	for _, tx := range display {
		if !f.matches(tx) {
			continue
		}

		i := competence.Of(tx).Diff(current)
		if i < 0 || i >= chartMonths {
			continue
		}

		totals[i].Net += tx.Signed()
	}

	return totals
}

func (f Filter) matches(tx *transaction.Transaction) bool {
	if f.Category != "" && tx.Category != f.Category {
		return false
	}

	if f.Text != "" && !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(f.Text)) {
		return false
	}

	return true
}

// RepairResult reports what a repair run changed.
type RepairResult struct {
	Sanitized int
	Healed    int
	Passes    int
}

func (r RepairResult) Changed() bool {
	return r.Sanitized+r.Healed > 0
}

// Assembler runs the projection pipeline against the live settings.
type Assembler struct {
	svc    *ledger.Service
	now    func() time.Time
	settle time.Duration
	opts   Options
	group  singleflight.Group
}

type Option func(*Assembler)

func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithSettleDelay sets the pause after a repair write before the settings are
// read again.
func WithSettleDelay(d time.Duration) Option {
	return func(a *Assembler) { a.settle = d }
}

func WithMatcher(m GoalMatcher) Option {
	return func(a *Assembler) { a.opts.Match = m }
}

func WithFallbackPayday(day int) Option {
	return func(a *Assembler) { a.opts.FallbackPayday = day }
}

func NewAssembler(svc *ledger.Service, opts ...Option) *Assembler {
	a := &Assembler{
		svc:  svc,
		now:  time.Now,
		opts: Options{Match: MatchOwnerOrName},
	}

	for _, o := range opts {
		o(a)
	}

	return a
}

// Repair sanitizes overflowed dates and heals recurring series until nothing
// changes, persisting after every pass that changed something. Concurrent
// callers share the in-flight run.
func (a *Assembler) Repair(ctx context.Context) (RepairResult, error) {
	v, err, _ := a.group.Do("repair", func() (any, error) {
		return a.repair(ctx)
	})

	res, _ := v.(RepairResult)

	return res, err
}

func (a *Assembler) repair(ctx context.Context) (RepairResult, error) {
	var res RepairResult

	for res.Passes < maxRepairPasses {
		res.Passes++

		var sanitized, healed int

		changed, err := a.svc.Update(ctx, "repair", func(s *ledger.Settings) (bool, error) {
			sanitized = Sanitize(s)
			healed = len(Heal(s))

			return sanitized+healed > 0, nil
		})

		res.Sanitized += sanitized
		res.Healed += healed

		if err != nil {
			return res, fmt.Errorf("persisting repair: %w", err)
		}

		if !changed {
			return res, nil
		}

		if err := a.wait(ctx); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (a *Assembler) wait(ctx context.Context) error {
	if a.settle <= 0 {
		return nil
	}

	t := time.NewTimer(a.settle)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Assemble repairs the stored settings and projects them.
func (a *Assembler) Assemble(ctx context.Context, f Filter) (*Result, error) {
	if _, err := a.Repair(ctx); err != nil {
		return nil, fmt.Errorf("repairing settings: %w", err)
	}

	return Project(a.svc.Snapshot(), a.now(), f, a.opts), nil
}

// Opportunities lists the virtual goal and fund entries for month.
func (a *Assembler) Opportunities(month calendar.Month) []*transaction.Transaction {
	return GenerateSavingOpportunities(a.svc.Snapshot(), month, a.opts.Match)
}

// Now is the assembler's clock, exposed so callers default to the same month.
func (a *Assembler) Now() time.Time {
	return a.now()
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/events"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

var ErrNotFound = errors.New("not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

type Publisher interface {
	Publish(e events.Event)
}

// Service owns the in-memory settings aggregate. Every mutation runs under the
// write lock and is persisted before it returns. It is announced on the bus
// once the lock is released.
type Service struct {
	repo Repository
	bus  Publisher

	mu       sync.RWMutex
	settings *Settings
}

func NewService(repo Repository, bus Publisher) *Service {
	return &Service{repo: repo, bus: bus, settings: &Settings{}}
}

// Load replaces the in-memory state with the persisted one.
func (s *Service) Load(ctx context.Context) error {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	return nil
}

// Snapshot returns a deep copy of the current settings.
func (s *Service) Snapshot() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings.Clone()
}

// Update applies fn to the live settings. When fn reports a change the
// settings are saved and DataChanged is published. A failed save leaves the
// in-memory change in place.
func (s *Service) Update(ctx context.Context, reason string, fn func(*Settings) (bool, error)) (bool, error) {
	changed, err := s.apply(ctx, fn)
	if err != nil || !changed {
		return changed, err
	}

	// Subscribers may read the settings back, so the lock is released first.
	if s.bus != nil {
		s.bus.Publish(events.Event{Kind: events.DataChanged, Reason: reason})
	}

	return true, nil
}

func (s *Service) apply(ctx context.Context, fn func(*Settings) (bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn(s.settings)
	if err != nil || !changed {
		return false, err
	}

	if err := s.repo.Save(ctx, s.settings); err != nil {
		return true, fmt.Errorf("saving settings: %w", err)
	}

	return true, nil
}

// Replace swaps the whole aggregate, as when restoring a backup.
func (s *Service) Replace(ctx context.Context, settings *Settings) error {
	_, err := s.Update(ctx, "replace", func(cur *Settings) (bool, error) {
		*cur = *settings.Clone()
		return true, nil
	})

	return err
}

// SetPaymentMonth is the only path that changes an explicit competence month.
func (s *Service) SetPaymentMonth(ctx context.Context, txID string, month calendar.Month) error {
	_, err := s.Update(ctx, "payment-month", func(cur *Settings) (bool, error) {
		tx := cur.Transaction(txID)
		if tx == nil {
			return false, fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
		}

		if tx.PaymentMonth == month.Key() {
			return false, nil
		}

		tx.PaymentMonth = month.Key()

		return true, nil
	})

	return err
}

func (s *Service) SetStatus(ctx context.Context, txID string, status transaction.Status) error {
	_, err := s.Update(ctx, "status", func(cur *Settings) (bool, error) {
		tx := cur.Transaction(txID)
		if tx == nil {
			return false, fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
		}

		if tx.Status == status {
			return false, nil
		}

		tx.Status = status

		return true, nil
	})

	return err
}

// SkipGoalMonth stops the goal from projecting an installment for month.
func (s *Service) SkipGoalMonth(ctx context.Context, goalID string, month calendar.Month) error {
	_, err := s.Update(ctx, "skip-goal", func(cur *Settings) (bool, error) {
		g := cur.Goal(goalID)
		if g == nil {
			return false, fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
		}

		if g.Skips(month) {
			return false, nil
		}

		g.SkippedMonths = append(g.SkippedMonths, month.Key())

		return true, nil
	})

	return err
}

func (s *Service) SkipFundMonth(ctx context.Context, month calendar.Month) error {
	_, err := s.Update(ctx, "skip-fund", func(cur *Settings) (bool, error) {
		if cur.EmergencyFund.Skips(month) {
			return false, nil
		}

		cur.EmergencyFund.SkippedMonths = append(cur.EmergencyFund.SkippedMonths, month.Key())

		return true, nil
	})

	return err
}

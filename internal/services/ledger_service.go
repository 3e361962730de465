package services

import (
	"context"
	"fmt"
	"time"

	"kosku/internal/core"
)

// LedgerStore is the slice of storage the ledger service needs.
type LedgerStore interface {
	CreatePenalty(ctx context.Context, p core.Penalty) (core.Penalty, error)
	UpdatePenalty(ctx context.Context, p core.Penalty) error
	MarkPenaltyPaid(ctx context.Context, id int64, paidDate core.Date) error
	DeletePenalty(ctx context.Context, id int64) error
	ListPenalties(ctx context.Context, month *core.Month) ([]core.Penalty, error)

	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
	ListExpenses(ctx context.Context, month *core.Month) ([]core.Expense, error)
}

// LedgerService owns penalty and expense records.
type LedgerService struct {
	store LedgerStore
	now   func() time.Time
}

func NewLedgerService(store LedgerStore) *LedgerService {
	return &LedgerService{
		store: store,
		now:   time.Now,
	}
}

func (s *LedgerService) CreatePenalty(ctx context.Context, p core.Penalty) (core.Penalty, error) {
	if err := p.Validate(); err != nil {
		return core.Penalty{}, fmt.Errorf("validate penalty: %w", err)
	}
	p.CreatedAt = s.now()
	return s.store.CreatePenalty(ctx, p)
}

func (s *LedgerService) UpdatePenalty(ctx context.Context, p core.Penalty) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate penalty: %w", err)
	}
	return s.store.UpdatePenalty(ctx, p)
}

// MarkPenaltyPaid records that a fine was collected. An empty paidDate
// defaults to today.
func (s *LedgerService) MarkPenaltyPaid(ctx context.Context, id int64, paidDate core.Date) error {
	if paidDate.IsEmpty() {
		now := s.now()
		paidDate = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}
	return s.store.MarkPenaltyPaid(ctx, id, paidDate)
}

func (s *LedgerService) DeletePenalty(ctx context.Context, id int64) error {
	return s.store.DeletePenalty(ctx, id)
}

// ListPenalties returns penalties, limited to one YYYY-MM month when month
// is non-empty.
func (s *LedgerService) ListPenalties(ctx context.Context, month string) ([]core.Penalty, error) {
	filter, err := monthFilter(month)
	if err != nil {
		return nil, err
	}
	return s.store.ListPenalties(ctx, filter)
}

func (s *LedgerService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}
	e.CreatedAt = s.now()
	return s.store.CreateExpense(ctx, e)
}

func (s *LedgerService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validate expense: %w", err)
	}
	return s.store.UpdateExpense(ctx, e)
}

func (s *LedgerService) DeleteExpense(ctx context.Context, id int64) error {
	return s.store.DeleteExpense(ctx, id)
}

// ListExpenses returns expenses, limited to one YYYY-MM month when month is
// non-empty.
func (s *LedgerService) ListExpenses(ctx context.Context, month string) ([]core.Expense, error) {
	filter, err := monthFilter(month)
	if err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, filter)
}

func monthFilter(month string) (*core.Month, error) {
	if month == "" {
		return nil, nil
	}
	m, err := core.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kosku/internal/core"
)

// BillingStore is the slice of storage the billing service needs.
type BillingStore interface {
	BillingRoster(ctx context.Context) ([]core.RoomBilling, error)
	BilledRoomIDs(ctx context.Context, month core.Month) (map[int64]struct{}, error)
	InsertPayments(ctx context.Context, rows []core.NewPayment) (int, error)
	CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error)
	UpdatePayment(ctx context.Context, p core.Payment) error
	GetPayment(ctx context.Context, id int64) (core.Payment, error)
	ListPayments(ctx context.Context, month *core.Month) ([]core.Payment, error)
}

// EventPublisher publishes billing lifecycle events. Publishing is best
// effort: local writes never fail on broker trouble.
type EventPublisher interface {
	PublishPaymentsGenerated(ctx context.Context, month string, created int) error
}

// PaymentView is a payment together with its derived status. The status is
// never stored, it is computed against the clock on every read.
type PaymentView struct {
	core.Payment
	Status core.PaymentStatus `json:"status"`
}

// GenerateResult reports what a generation run did.
type GenerateResult struct {
	Month    string `json:"month"`
	Created  int    `json:"created"`
	Occupied int    `json:"occupied"`
	Skipped  int    `json:"skipped"`
}

// BillingService creates and maintains monthly rent payment records.
type BillingService struct {
	store     BillingStore
	publisher EventPublisher
	now       func() time.Time
}

func NewBillingService(store BillingStore, publisher EventPublisher) *BillingService {
	return &BillingService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// GenerateForMonth creates the missing rent payments for a YYYY-MM month.
// Rooms already billed for that month are left untouched, so the operation
// can be repeated safely.
func (s *BillingService) GenerateForMonth(ctx context.Context, month string) (GenerateResult, error) {
	roster, err := s.store.BillingRoster(ctx)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("load billing roster: %w", err)
	}

	m, err := core.ParseMonth(month)
	if err != nil {
		return GenerateResult{}, err
	}

	billed, err := s.store.BilledRoomIDs(ctx, m)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("load billed rooms: %w", err)
	}

	rows, err := core.BuildMissingPayments(month, roster, billed, s.now())
	if err != nil {
		return GenerateResult{}, err
	}

	created, err := s.store.InsertPayments(ctx, rows)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("insert generated payments: %w", err)
	}

	result := GenerateResult{
		Month:    month,
		Created:  created,
		Occupied: len(roster),
		Skipped:  len(roster) - created,
	}

	slog.InfoContext(ctx, "Generated monthly payments",
		"month", month,
		"created", result.Created,
		"occupied", result.Occupied,
		"skipped", result.Skipped)

	if s.publisher != nil && created > 0 {
		if err := s.publisher.PublishPaymentsGenerated(ctx, month, created); err != nil {
			// Payments are already persisted, the event is informational
			slog.ErrorContext(ctx, "Failed to publish payments generated event",
				"month", month, "error", err)
		}
	}

	return result, nil
}

// ListPayments returns payments with their derived status, limited to one
// YYYY-MM month when month is non-empty.
func (s *BillingService) ListPayments(ctx context.Context, month string) ([]PaymentView, error) {
	var filter *core.Month
	if month != "" {
		m, err := core.ParseMonth(month)
		if err != nil {
			return nil, err
		}
		filter = &m
	}

	payments, err := s.store.ListPayments(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{
			Payment: p,
			Status:  core.DeriveStatus(p, now),
		})
	}
	return views, nil
}

// CreatePayment records a manual payment row, for rooms billed outside the
// generator.
func (s *BillingService) CreatePayment(ctx context.Context, p core.Payment) (PaymentView, error) {
	if err := p.Validate(); err != nil {
		return PaymentView{}, fmt.Errorf("validate payment: %w", err)
	}

	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	created, err := s.store.CreatePayment(ctx, p)
	if err != nil {
		return PaymentView{}, err
	}
	return PaymentView{Payment: created, Status: core.DeriveStatus(created, now)}, nil
}

// RecordPayment books an amount against an existing payment row.
func (s *BillingService) RecordPayment(ctx context.Context, id int64, amount core.Money, paymentDate core.Date, method string) (PaymentView, error) {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return PaymentView{}, err
	}

	p.AmountPaid = amount
	p.PaymentDate = paymentDate
	p.Method = method
	p.UpdatedAt = s.now()

	if err := p.Validate(); err != nil {
		return PaymentView{}, fmt.Errorf("validate payment: %w", err)
	}
	if err := s.store.UpdatePayment(ctx, p); err != nil {
		return PaymentView{}, err
	}

	view := PaymentView{Payment: p, Status: core.DeriveStatus(p, s.now())}
	slog.InfoContext(ctx, "Payment updated",
		"id", id,
		"amount_paid", amount.Rupiah,
		"status", view.Status)
	return view, nil
}

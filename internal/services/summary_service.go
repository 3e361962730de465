package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"kosku/internal/core"
	"kosku/internal/sheets"
)

// SummaryStore is the slice of storage the summary service needs.
type SummaryStore interface {
	ListPayments(ctx context.Context, month *core.Month) ([]core.Payment, error)
	ListPenalties(ctx context.Context, month *core.Month) ([]core.Penalty, error)
	ListExpenses(ctx context.Context, month *core.Month) ([]core.Expense, error)
	ActiveRoomIDs(ctx context.Context) (map[int64]struct{}, error)
}

// SummaryService aggregates payments, penalties and expenses into per-month
// financial rows.
type SummaryService struct {
	store  SummaryStore
	writer sheets.SummaryWriter
}

func NewSummaryService(store SummaryStore, writer sheets.SummaryWriter) *SummaryService {
	return &SummaryService{
		store:  store,
		writer: writer,
	}
}

// MonthlySummary computes one row per month that has financial activity.
// With activeOnly set, payments and penalties of rooms no longer on the
// roster are excluded; expenses always count.
func (s *SummaryService) MonthlySummary(ctx context.Context, activeOnly bool) ([]core.MonthlySummaryRow, error) {
	var (
		payments  []core.Payment
		penalties []core.Penalty
		expenses  []core.Expense
		activeIDs map[int64]struct{}
	)

	// The four reads are independent, fetch them concurrently
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		payments, err = s.store.ListPayments(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		penalties, err = s.store.ListPenalties(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpenses(gctx, nil)
		return err
	})
	if activeOnly {
		g.Go(func() (err error) {
			activeIDs, err = s.store.ActiveRoomIDs(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load summary inputs: %w", err)
	}

	rows := core.ComputeMonthlySummary(payments, penalties, expenses, activeIDs)

	slog.DebugContext(ctx, "Computed monthly summary",
		"months", len(rows),
		"payments", len(payments),
		"penalties", len(penalties),
		"expenses", len(expenses),
		"active_only", activeOnly)
	return rows, nil
}

// Export writes the full summary to the configured sink.
func (s *SummaryService) Export(ctx context.Context, activeOnly bool) (int, error) {
	if s.writer == nil {
		return 0, fmt.Errorf("no summary writer configured")
	}

	rows, err := s.MonthlySummary(ctx, activeOnly)
	if err != nil {
		return 0, err
	}

	if err := s.writer.WriteSummary(ctx, rows); err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}

	slog.InfoContext(ctx, "Exported monthly summary", "months", len(rows))
	return len(rows), nil
}

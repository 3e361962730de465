package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kosku/internal/amqp"
	"kosku/internal/core"
	applog "kosku/internal/log"
	"kosku/internal/services"
)

// BillingWorker drives payment generation from AMQP commands and a periodic
// sweep. The sweep is a backup for lost messages: generation is idempotent,
// so running it again for an already-billed month is harmless.
type BillingWorker struct {
	billing *services.BillingService
	events  *applog.StructuredLogger
	now     func() time.Time
}

func NewBillingWorker(billing *services.BillingService) *BillingWorker {
	return &BillingWorker{
		billing: billing,
		events:  applog.NewStructuredLogger(applog.NewFromEnv(applog.ComponentWorker)),
		now:     time.Now,
	}
}

// HandleGenerateCommand processes a single generation command from AMQP.
func (w *BillingWorker) HandleGenerateCommand(ctx context.Context, msg *amqp.GenerateMonthMessage) error {
	slog.InfoContext(ctx, "Processing generate command", "month", msg.Month)

	result, err := w.billing.GenerateForMonth(ctx, msg.Month)
	if err != nil {
		return fmt.Errorf("generate payments for %s: %w", msg.Month, err)
	}

	w.events.LogPaymentsGenerated(ctx, result.Month, result.Created)
	return nil
}

// SweepCurrentMonth generates any payments still missing for the month the
// clock is in.
func (w *BillingWorker) SweepCurrentMonth(ctx context.Context) error {
	month := core.MonthOf(w.now()).String()

	result, err := w.billing.GenerateForMonth(ctx, month)
	if err != nil {
		return fmt.Errorf("sweep month %s: %w", month, err)
	}

	if result.Created > 0 {
		w.events.LogPaymentsGenerated(ctx, month, result.Created)
	}
	return nil
}

// RunSweepLoop sweeps immediately, then on every tick until ctx is done.
func (w *BillingWorker) RunSweepLoop(ctx context.Context, interval time.Duration) {
	if err := w.SweepCurrentMonth(ctx); err != nil {
		w.events.LogError(ctx, "Startup sweep failed", err, applog.ComponentWorker, applog.OpGenerate, applog.NewFields())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Sweep loop stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			if err := w.SweepCurrentMonth(ctx); err != nil {
				w.events.LogError(ctx, "Periodic sweep failed", err, applog.ComponentWorker, applog.OpGenerate, applog.NewFields())
			}
		}
	}
}

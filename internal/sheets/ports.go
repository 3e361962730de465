package sheets

import (
	"context"

	"kosku/internal/core"
)

// Ports for outbound adapters.
type (
	// SummaryWriter exports the monthly financial summary to a sheet.
	SummaryWriter interface {
		WriteSummary(ctx context.Context, rows []core.MonthlySummaryRow) error
	}
)

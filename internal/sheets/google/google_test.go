package google

import (
	"testing"

	"kosku/internal/core"
)

func TestSummaryValues(t *testing.T) {
	rows := []core.MonthlySummaryRow{
		{
			Month:              "2025-01",
			RentInvoiced:       core.Money{Rupiah: 2_200_000},
			RentCollected:      core.Money{Rupiah: 1_000_000},
			PenaltiesIncurred:  core.Money{Rupiah: 50_000},
			PenaltiesCollected: core.Money{Rupiah: 50_000},
			ExpensesTotal:      core.Money{Rupiah: 300_000},
			NetRealized:        core.Money{Rupiah: 750_000},
			NetGross:           core.Money{Rupiah: 750_000},
		},
	}

	values := summaryValues(rows)

	if len(values) != 2 {
		t.Fatalf("summaryValues() length = %d, want 2 (header + 1 row)", len(values))
	}
	if values[0][0] != "Month" {
		t.Errorf("header first cell = %v, want Month", values[0][0])
	}
	if values[1][0] != "2025-01" {
		t.Errorf("row month = %v, want 2025-01", values[1][0])
	}
	if values[1][1] != int64(2_200_000) {
		t.Errorf("rent invoiced cell = %v, want 2200000", values[1][1])
	}
	if values[1][7] != int64(750_000) {
		t.Errorf("net gross cell = %v, want 750000", values[1][7])
	}
}

func TestSummaryValues_Empty(t *testing.T) {
	values := summaryValues(nil)
	if len(values) != 1 {
		t.Fatalf("summaryValues(nil) length = %d, want just the header", len(values))
	}
}

package core

import (
	"reflect"
	"testing"
)

func pay(room int64, month string, due, paid int64) Payment {
	first, err := ParseDate(month + "-01")
	if err != nil {
		panic(err)
	}
	return Payment{
		RoomID:       room,
		BillingMonth: first,
		DueDate:      first,
		AmountDue:    Money{Rupiah: due},
		AmountPaid:   Money{Rupiah: paid},
	}
}

func fine(room int64, date string, amount int64, paid bool) Penalty {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Penalty{RoomID: room, Type: PenaltyLatePayment, Amount: Money{Rupiah: amount}, IncidentDate: d, Paid: paid}
}

func cost(date string, amount int64) Expense {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Expense{Date: d, Category: "operational", Amount: Money{Rupiah: amount}}
}

func TestComputeMonthlySummarySingleMonth(t *testing.T) {
	payments := []Payment{pay(1, "2025-01", 1000000, 1000000)}
	expenses := []Expense{cost("2025-01-20", 200000)}

	rows := ComputeMonthlySummary(payments, nil, expenses, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := MonthlySummaryRow{
		Month:         "2025-01",
		RentInvoiced:  Money{Rupiah: 1000000},
		RentCollected: Money{Rupiah: 1000000},
		ExpensesTotal: Money{Rupiah: 200000},
		NetRealized:   Money{Rupiah: 800000},
		NetGross:      Money{Rupiah: 800000},
	}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("row = %+v, want %+v", rows[0], want)
	}
}

func TestComputeMonthlySummaryMultiMonth(t *testing.T) {
	payments := []Payment{
		pay(1, "2025-07", 100, 100),
		pay(1, "2025-08", 100, 0),
	}
	penalties := []Penalty{fine(1, "2025-08-10", 20, false)}
	expenses := []Expense{
		cost("2025-07-05", 30),
		cost("2025-08-05", 40),
	}

	rows := ComputeMonthlySummary(payments, penalties, expenses, nil)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	july := rows[0]
	if july.Month != "2025-07" {
		t.Fatalf("rows not in ascending month order: %+v", rows)
	}
	if july.NetRealized.Rupiah != 70 || july.NetGross.Rupiah != 70 {
		t.Errorf("july net = %d/%d, want 70/70", july.NetRealized.Rupiah, july.NetGross.Rupiah)
	}

	august := rows[1]
	if august.NetRealized.Rupiah != -40 {
		t.Errorf("august net_realized = %d, want -40", august.NetRealized.Rupiah)
	}
	if august.NetGross.Rupiah != -20 {
		t.Errorf("august net_gross = %d, want -20", august.NetGross.Rupiah)
	}
}

func TestComputeMonthlySummaryOverpaymentCapped(t *testing.T) {
	rows := ComputeMonthlySummary([]Payment{pay(1, "2025-03", 500, 700)}, nil, nil, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].RentCollected.Rupiah != 500 {
		t.Errorf("rent_collected = %d, want 500", rows[0].RentCollected.Rupiah)
	}
}

func TestComputeMonthlySummaryExpenseOnlyMonth(t *testing.T) {
	rows := ComputeMonthlySummary(nil, nil, []Expense{cost("2025-02-10", 150)}, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Month != "2025-02" {
		t.Errorf("month = %s, want 2025-02", row.Month)
	}
	if row.RentInvoiced.Rupiah != 0 || row.PenaltiesIncurred.Rupiah != 0 {
		t.Errorf("expected zeroed rent/penalty fields, got %+v", row)
	}
	if row.NetRealized.Rupiah != -150 {
		t.Errorf("net_realized = %d, want -150", row.NetRealized.Rupiah)
	}
}

func TestComputeMonthlySummaryEmptyInputs(t *testing.T) {
	if rows := ComputeMonthlySummary(nil, nil, nil, nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestComputeMonthlySummaryActiveRoomFilter(t *testing.T) {
	payments := []Payment{
		pay(1, "2025-05", 100, 100),
		pay(99, "2025-05", 400, 400), // deleted room, must be ignored
	}
	penalties := []Penalty{
		fine(1, "2025-05-02", 25, true),
		fine(99, "2025-05-03", 75, true),
	}
	expenses := []Expense{cost("2025-05-09", 10)}
	active := map[int64]struct{}{1: {}}

	rows := ComputeMonthlySummary(payments, penalties, expenses, active)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.RentCollected.Rupiah != 100 {
		t.Errorf("rent_collected = %d, want 100", row.RentCollected.Rupiah)
	}
	if row.PenaltiesCollected.Rupiah != 25 {
		t.Errorf("penalties_collected = %d, want 25", row.PenaltiesCollected.Rupiah)
	}
	// Expenses are room-independent and never filtered.
	if row.ExpensesTotal.Rupiah != 10 {
		t.Errorf("expenses_total = %d, want 10", row.ExpensesTotal.Rupiah)
	}
}

func TestComputeMonthlySummaryIdempotent(t *testing.T) {
	payments := []Payment{pay(1, "2025-07", 100, 100), pay(2, "2025-08", 200, 50)}
	penalties := []Penalty{fine(1, "2025-07-10", 20, true)}
	expenses := []Expense{cost("2025-08-01", 40)}

	first := ComputeMonthlySummary(payments, penalties, expenses, nil)
	second := ComputeMonthlySummary(payments, penalties, expenses, nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls disagree: %+v vs %+v", first, second)
	}
}

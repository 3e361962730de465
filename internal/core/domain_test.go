package core

import (
	"testing"
	"time"
)

func TestRoomValidate(t *testing.T) {
	good := Room{Number: "2A", RentPrice: Money{Rupiah: 850000}, Status: RoomOccupied, TenantName: "Budi", DueDay: 5}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Room{
		{Number: "", RentPrice: Money{Rupiah: 1}, Status: RoomVacant, DueDay: 5},
		{Number: "2A", RentPrice: Money{Rupiah: -1}, Status: RoomVacant, DueDay: 5},
		{Number: "2A", RentPrice: Money{Rupiah: 1}, Status: "rented", DueDay: 5},
		{Number: "2A", RentPrice: Money{Rupiah: 1}, Status: RoomVacant, TenantName: "Budi", DueDay: 5},
		{Number: "2A", RentPrice: Money{Rupiah: 1}, Status: RoomVacant, DueDay: 0},
		{Number: "2A", RentPrice: Money{Rupiah: 1}, Status: RoomVacant, DueDay: 32},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Errorf("case %d expected error", i)
		}
	}
}

func TestPenaltyValidate(t *testing.T) {
	incident := NewDate(2025, 3, 10)

	tests := []struct {
		name string
		p    Penalty
		ok   bool
	}{
		{
			name: "late payment fine",
			p:    Penalty{RoomID: 1, Type: PenaltyLatePayment, Amount: Money{Rupiah: 50000}, IncidentDate: incident},
			ok:   true,
		},
		{
			name: "custom with description",
			p:    Penalty{RoomID: 1, Type: PenaltyCustom, CustomDescription: "broken chair", Amount: Money{Rupiah: 50000}, IncidentDate: incident},
			ok:   true,
		},
		{
			name: "custom without description",
			p:    Penalty{RoomID: 1, Type: PenaltyCustom, Amount: Money{Rupiah: 50000}, IncidentDate: incident},
			ok:   false,
		},
		{
			name: "unknown type",
			p:    Penalty{RoomID: 1, Type: "noise", Amount: Money{Rupiah: 50000}, IncidentDate: incident},
			ok:   false,
		},
		{
			name: "zero amount",
			p:    Penalty{RoomID: 1, Type: PenaltyLatePayment, Amount: Money{}, IncidentDate: incident},
			ok:   false,
		},
		{
			name: "missing room",
			p:    Penalty{Type: PenaltyLatePayment, Amount: Money{Rupiah: 50000}, IncidentDate: incident},
			ok:   false,
		},
		{
			name: "missing incident date",
			p:    Penalty{RoomID: 1, Type: PenaltyLatePayment, Amount: Money{Rupiah: 50000}},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected ok, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Date: NewDate(2025, 1, 1), Category: "electricity", Amount: Money{Rupiah: 300000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Date: Date{Time: time.Time{}}, Category: "electricity", Amount: Money{Rupiah: 1}},
		{Date: NewDate(2025, 1, 1), Category: "", Amount: Money{Rupiah: 1}},
		{Date: NewDate(2025, 1, 1), Category: "electricity", Amount: Money{}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Errorf("case %d expected error", i)
		}
	}
}

func TestPaymentValidate(t *testing.T) {
	good := Payment{
		RoomID:       1,
		BillingMonth: NewDate(2025, 4, 1),
		DueDate:      NewDate(2025, 4, 5),
		AmountDue:    Money{Rupiah: 850000},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	missingRoom := good
	missingRoom.RoomID = 0
	if err := missingRoom.Validate(); err == nil {
		t.Errorf("expected error for missing room reference")
	}

	noDue := good
	noDue.DueDate = Date{}
	if err := noDue.Validate(); err == nil {
		t.Errorf("expected error for unset due date")
	}
}

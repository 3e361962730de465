package core

import (
	"errors"
	"strings"
	"time"
)

const (
	RoomOccupied RoomStatus = "occupied"
	RoomVacant   RoomStatus = "vacant"

	PenaltyOvernightGuest PenaltyType = "overnight_guest"
	PenaltyLatePayment    PenaltyType = "late_payment"
	PenaltyCustom         PenaltyType = "custom"
)

type (
	RoomStatus  string
	PenaltyType string

	// Room is a rentable unit. TenantName is empty while the room is vacant.
	Room struct {
		ID         int64      `json:"id"`
		Number     string     `json:"number"`
		RentPrice  Money      `json:"rent_price"`
		Status     RoomStatus `json:"status"`
		TenantName string     `json:"tenant_name,omitempty"`
		DueDay     int        `json:"due_day"`
		CreatedAt  time.Time  `json:"created_at"`
		UpdatedAt  time.Time  `json:"updated_at"`
	}

	// Payment is one billing-cycle record tying a room to a month.
	// BillingMonth is the first day of that month. A zero PaymentDate means
	// nothing has been paid yet.
	Payment struct {
		ID           int64     `json:"id"`
		RoomID       int64     `json:"room_id"`
		BillingMonth Date      `json:"billing_month"`
		DueDate      Date      `json:"due_date"`
		AmountDue    Money     `json:"amount_due"`
		AmountPaid   Money     `json:"amount_paid"`
		PaymentDate  Date      `json:"payment_date"`
		Method       string    `json:"method,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	// Penalty is a fine incurred by a room's occupant.
	Penalty struct {
		ID                int64       `json:"id"`
		RoomID            int64       `json:"room_id"`
		Type              PenaltyType `json:"type"`
		CustomDescription string      `json:"custom_description,omitempty"`
		Amount            Money       `json:"amount"`
		IncidentDate      Date        `json:"incident_date"`
		Paid              bool        `json:"paid"`
		PaidDate          Date        `json:"paid_date"`
		Notes             string      `json:"notes,omitempty"`
		CreatedAt         time.Time   `json:"created_at"`
	}

	// Expense is a cost record independent of any room.
	Expense struct {
		ID        int64     `json:"id"`
		Date      Date      `json:"date"`
		Category  string    `json:"category"`
		Amount    Money     `json:"amount"`
		Notes     string    `json:"notes,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	// RoomOccupancy records which tenant held a room for a given month.
	RoomOccupancy struct {
		RoomID     int64     `json:"room_id"`
		Month      Date      `json:"month"`
		TenantName string    `json:"tenant_name"`
		CreatedAt  time.Time `json:"created_at"`
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDueDay   = errors.New("invalid due day")
	ErrInvalidStatus   = errors.New("invalid room status")
	ErrInvalidPenalty  = errors.New("invalid penalty type")
	ErrEmptyRoomNumber = errors.New("empty room number")
	ErrEmptyCategory   = errors.New("empty expense category")
	ErrVacantTenant    = errors.New("vacant room cannot have a tenant name")
)

func (r Room) Validate() error {
	if strings.TrimSpace(r.Number) == "" {
		return ErrEmptyRoomNumber
	}
	if r.RentPrice.Rupiah < 0 {
		return ErrInvalidAmount
	}
	switch r.Status {
	case RoomOccupied, RoomVacant:
	default:
		return ErrInvalidStatus
	}
	if r.Status == RoomVacant && strings.TrimSpace(r.TenantName) != "" {
		return ErrVacantTenant
	}
	if r.DueDay < 1 || r.DueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}

func (p Payment) Validate() error {
	if p.RoomID <= 0 {
		return errors.New("payment requires a room reference")
	}
	if err := p.BillingMonth.Validate(); err != nil {
		return errors.New("invalid billing month: " + err.Error())
	}
	if err := p.DueDate.Validate(); err != nil {
		return errors.New("invalid due date: " + err.Error())
	}
	if p.AmountDue.Rupiah < 0 || p.AmountPaid.Rupiah < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (p Penalty) Validate() error {
	if p.RoomID <= 0 {
		return errors.New("penalty requires a room reference")
	}
	switch p.Type {
	case PenaltyOvernightGuest, PenaltyLatePayment:
	case PenaltyCustom:
		if strings.TrimSpace(p.CustomDescription) == "" {
			return errors.New("custom penalty requires a description")
		}
	default:
		return ErrInvalidPenalty
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if err := p.IncidentDate.Validate(); err != nil {
		return errors.New("invalid incident date: " + err.Error())
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Amount.Validate()
}

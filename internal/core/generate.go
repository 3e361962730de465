package core

import "time"

// DefaultDueDay is the day of month rent falls due when a room has no due
// day configured.
const DefaultDueDay = 5

// RoomBilling is the slice of room state the payment generator needs.
// A nil DueDay means the room has no due-day override.
type RoomBilling struct {
	RoomID    int64
	RentPrice Money
	Status    RoomStatus
	DueDay    *int
}

// NewPayment is a payment row prior to insertion, before an id is assigned.
type NewPayment struct {
	RoomID       int64
	BillingMonth Date
	DueDate      Date
	AmountDue    Money
	AmountPaid   Money
	PaymentDate  Date
	Method       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BuildMissingPayments returns one unsaved payment row for every occupied
// room that has no payment record for the given YYYY-MM month yet, in the
// order the rooms were passed. The now argument stamps created/updated times
// and must be injected by the caller for determinism.
//
// The due day, defaulting to DefaultDueDay, is clamped to the actual length
// of the target month: day 35 in February yields the 28th (29th in leap
// years) while day 31 in a 31-day month stays the 31st.
func BuildMissingPayments(month string, rooms []RoomBilling, existingRoomIDs map[int64]struct{}, now time.Time) ([]NewPayment, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	lastDay := m.LastDay()

	var rows []NewPayment
	for _, r := range rooms {
		if r.Status != RoomOccupied {
			continue
		}
		if _, billed := existingRoomIDs[r.RoomID]; billed {
			continue
		}
		day := DefaultDueDay
		if r.DueDay != nil {
			day = *r.DueDay
		}
		if day < 1 {
			day = 1
		}
		if day > lastDay {
			day = lastDay
		}
		rows = append(rows, NewPayment{
			RoomID:       r.RoomID,
			BillingMonth: m.First(),
			DueDate:      NewDate(m.Year, int(m.Month), day),
			AmountDue:    r.RentPrice,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return rows, nil
}

package core

import "time"

const (
	StatusPaid   PaymentStatus = "paid"
	StatusUnpaid PaymentStatus = "unpaid"
	StatusLate   PaymentStatus = "late"
)

type PaymentStatus string

// DeriveStatus reports where a payment stands as of now. A payment covering
// its full amount due is paid no matter how late it was settled; otherwise
// it is late once now has passed the due date, unpaid until then. The caller
// supplies now so the derivation stays deterministic under test.
func DeriveStatus(p Payment, now time.Time) PaymentStatus {
	if p.AmountPaid.Rupiah >= p.AmountDue.Rupiah {
		return StatusPaid
	}
	if now.After(p.DueDate.Time) {
		return StatusLate
	}
	return StatusUnpaid
}

package models

import "time"

// PaymentMethod is the canonical payment channel. Anything that is not cash
// canonicalizes to bank, including unrecognized values; this mirrors the
// settlement semantics the rest of the system depends on.
type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodBank PaymentMethod = "bank"
)

// CanonicalMethod maps raw method input onto the canonical channel.
func CanonicalMethod(raw string) PaymentMethod {
	if raw == string(MethodCash) {
		return MethodCash
	}
	return MethodBank
}

// PaymentStatus enumerates settlement states. pending is the only state a
// settlement may leave; completed and failed are terminal.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment records money owed or collected for a trip or booking.
type Payment struct {
	ID        string        `json:"id"`
	StudentID string        `json:"studentId"`
	TripID    string        `json:"tripId,omitempty"`
	BookingID string        `json:"bookingId,omitempty"`
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	Date      time.Time     `json:"date"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

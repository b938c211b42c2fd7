package models

import "time"

// BookingStatus enumerates seat booking states.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Counted reports whether the booking occupies a seat on its trip.
func (s BookingStatus) Counted() bool {
	return s == BookingConfirmed || s == BookingActive
}

// Booking reserves a seat for a student on a trip.
type Booking struct {
	ID        string        `json:"id"`
	StudentID string        `json:"studentId"`
	TripID    string        `json:"tripId"`
	Status    BookingStatus `json:"status"`
	Date      time.Time     `json:"date"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

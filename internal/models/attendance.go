package models

import "time"

// AttendanceStatus marks a student present or absent on a trip.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// AttendanceRecord holds one attendance mark. At most one record exists per
// (studentId, tripId); a repeated submission updates the existing record.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	StudentID string           `json:"studentId"`
	TripID    string           `json:"tripId"`
	Status    AttendanceStatus `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Notes     string           `json:"notes,omitempty"`
}

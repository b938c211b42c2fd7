package models

import "time"

// TripStatus enumerates the trip lifecycle states. scheduled → active →
// completed is derived from wall-clock time; cancelled is set by an operator
// write and is terminal.
type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// Terminal reports whether the lifecycle pass must leave the trip alone.
func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// Trip is one scheduled run of a bus along a route. Date is "2006-01-02",
// StartTime and EndTime are "15:04" wall-clock strings; the lifecycle pass
// tolerates missing or malformed values by skipping the trip.
type Trip struct {
	ID           string     `json:"id"`
	RouteID      string     `json:"routeId"`
	BusID        string     `json:"busId"`
	DriverID     string     `json:"driverId"`
	SupervisorID string     `json:"supervisorId,omitempty"`
	Date         string     `json:"date"`
	StartTime    string     `json:"startTime"`
	EndTime      string     `json:"endTime"`
	Status       TripStatus `json:"status"`
	Passengers   int        `json:"passengers"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

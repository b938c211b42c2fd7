package models

import "time"

// BusStatus enumerates fleet vehicle states.
type BusStatus string

const (
	BusActive      BusStatus = "active"
	BusMaintenance BusStatus = "maintenance"
	BusRetired     BusStatus = "retired"
)

// Valid returns true when the status is a supported value.
func (s BusStatus) Valid() bool {
	switch s {
	case BusActive, BusMaintenance, BusRetired:
		return true
	default:
		return false
	}
}

// MaintenanceStatus is derived from lastMaintenance + maintenanceInterval.
const (
	MaintenanceOverdue = "overdue"
	MaintenanceDueSoon = "due_soon"
	MaintenanceOK      = "ok"
)

// Bus is a fleet vehicle with its student roster.
type Bus struct {
	ID                   string     `json:"id"`
	Number               string     `json:"number"`
	Capacity             int        `json:"capacity"`
	Status               BusStatus  `json:"status"`
	AssignedStudents     []string   `json:"assignedStudents"`
	AssignedSupervisorID string     `json:"assignedSupervisorId,omitempty"`
	LastMaintenance      *time.Time `json:"lastMaintenance,omitempty"`
	MaintenanceInterval  int        `json:"maintenanceInterval,omitempty"` // days
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// HasStudent reports whether the student is already on this bus's roster.
func (b *Bus) HasStudent(studentID string) bool {
	for _, id := range b.AssignedStudents {
		if id == studentID {
			return true
		}
	}
	return false
}

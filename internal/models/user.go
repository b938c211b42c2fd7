package models

import "time"

// UserRole enumerates the operator roles known to the engine.
type UserRole string

const (
	RoleStudent         UserRole = "student"
	RoleDriver          UserRole = "driver"
	RoleSupervisor      UserRole = "supervisor"
	RoleMovementManager UserRole = "movement-manager"
	RoleAdmin           UserRole = "admin"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleDriver, RoleSupervisor, RoleMovementManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// SubscriptionStatus tracks whether a student subscription is usable.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// User represents any account in the snapshot; role-specific fields are
// optional and only populated for the matching role.
type User struct {
	ID           string   `json:"id"`
	Role         UserRole `json:"role"`
	Name         string   `json:"name"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	PasswordHash string   `json:"passwordHash,omitempty"`

	// Student fields.
	StudentID          string             `json:"studentId,omitempty"`
	Department         string             `json:"department,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus,omitempty"`
	AssignedBusID      string             `json:"assignedBusId,omitempty"`

	// Driver fields.
	LicenseNumber string `json:"licenseNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is the gateway-resolved caller identity consumed by the engine.
type Identity struct {
	UserID string
	Role   UserRole
}

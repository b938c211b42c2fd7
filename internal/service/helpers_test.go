package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/campus-transit/shuttle-ops-api/internal/engine"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
	"github.com/campus-transit/shuttle-ops-api/internal/store"
)

// testNow is the fixed clock used by all service tests.
var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestEngine(seed *models.Snapshot) *engine.Engine {
	return engine.New(store.NewMemoryStore(seed), fixedClock, zap.NewNop())
}

func seedStudent(id string) models.User {
	return models.User{
		ID:        id,
		Role:      models.RoleStudent,
		Name:      "Student " + id,
		Email:     id + "@campus.edu",
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func seedSupervisor(id string) models.User {
	return models.User{ID: id, Role: models.RoleSupervisor, Name: "Supervisor " + id}
}

func seedBus(id, number string, capacity int) models.Bus {
	return models.Bus{
		ID:               id,
		Number:           number,
		Capacity:         capacity,
		Status:           models.BusActive,
		AssignedStudents: []string{},
	}
}

func seedTrip(id, routeID, busID string) models.Trip {
	return models.Trip{
		ID:        id,
		RouteID:   routeID,
		BusID:     busID,
		DriverID:  "driver-1",
		Date:      "2025-03-20",
		StartTime: "08:00",
		EndTime:   "09:30",
		Status:    models.TripScheduled,
	}
}

func completedPayment(studentID string, amount float64) models.Payment {
	return models.Payment{
		ID:        "pay-" + studentID,
		StudentID: studentID,
		Amount:    amount,
		Method:    models.MethodBank,
		Status:    models.PaymentCompleted,
		Date:      testNow,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

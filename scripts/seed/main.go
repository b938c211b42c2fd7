// Command seed writes a small demo snapshot for local development against
// the file store backend.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	"github.com/campus-transit/shuttle-ops-api/internal/store"
)

func main() {
	out := flag.String("out", "./data/snapshot.json", "path of the snapshot file to write")
	flag.Parse()

	now := time.Now()
	today := now.Format("2006-01-02")

	snap := models.NewSnapshot()
	snap.Users = append(snap.Users,
		models.User{ID: "admin-1", Role: models.RoleAdmin, Name: "Operations Admin", Email: "admin@campus.edu", CreatedAt: now, UpdatedAt: now},
		models.User{ID: "manager-1", Role: models.RoleMovementManager, Name: "Movement Manager", Email: "manager@campus.edu", CreatedAt: now, UpdatedAt: now},
		models.User{ID: "sup-1", Role: models.RoleSupervisor, Name: "Route Supervisor", Email: "supervisor@campus.edu", CreatedAt: now, UpdatedAt: now},
		models.User{ID: "driver-1", Role: models.RoleDriver, Name: "Shuttle Driver", LicenseNumber: "DL-48213", CreatedAt: now, UpdatedAt: now},
		models.User{ID: "stu-1", Role: models.RoleStudent, Name: "Sara Ali", Email: "sara@campus.edu", StudentID: "S-2025-001", Department: "Engineering", SubscriptionStatus: models.SubscriptionInactive, CreatedAt: now, UpdatedAt: now},
		models.User{ID: "stu-2", Role: models.RoleStudent, Name: "Omar Hassan", Email: "omar@campus.edu", StudentID: "S-2025-002", Department: "Medicine", SubscriptionStatus: models.SubscriptionInactive, CreatedAt: now, UpdatedAt: now},
	)

	last := now.AddDate(0, 0, -30)
	snap.Buses = append(snap.Buses, models.Bus{
		ID:                   "bus-1",
		Number:               "B-101",
		Capacity:             40,
		Status:               models.BusActive,
		AssignedStudents:     []string{},
		AssignedSupervisorID: "sup-1",
		LastMaintenance:      &last,
		MaintenanceInterval:  90,
		CreatedAt:            now,
		UpdatedAt:            now,
	})

	snap.Routes = append(snap.Routes, models.Route{
		ID:                "route-1",
		Name:              "North Gate Loop",
		StartPoint:        "Main Campus",
		EndPoint:          "North Dorms",
		Distance:          6.5,
		EstimatedDuration: 25,
		CreatedAt:         now,
		UpdatedAt:         now,
	})

	snap.Trips = append(snap.Trips, models.Trip{
		ID:           "trip-1",
		RouteID:      "route-1",
		BusID:        "bus-1",
		DriverID:     "driver-1",
		SupervisorID: "sup-1",
		Date:         today,
		StartTime:    "08:00",
		EndTime:      "08:45",
		Status:       models.TripScheduled,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	snap.Payments = append(snap.Payments, models.Payment{
		ID:        "pay-1",
		StudentID: "stu-1",
		TripID:    "trip-1",
		Amount:    150,
		Method:    models.MethodBank,
		Status:    models.PaymentCompleted,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	})

	st := store.NewFileStore(*out)
	if err := st.Save(context.Background(), snap); err != nil {
		log.Fatalf("write snapshot: %v", err)
	}
	log.Printf("seed snapshot written to %s", *out)
}

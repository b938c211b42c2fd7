package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

func tripFixture() *models.Snapshot {
	snap := models.NewSnapshot()
	snap.Routes = append(snap.Routes, models.Route{ID: "route-1", Name: "North Gate"})
	snap.Buses = append(snap.Buses, seedBus("bus-1", "B-101", 30))
	snap.Users = append(snap.Users,
		models.User{ID: "driver-1", Role: models.RoleDriver, Name: "Driver One"},
		seedSupervisor("sup-1"),
		seedStudent("stu-1"),
	)
	return snap
}

func TestCreateTrip(t *testing.T) {
	svc := NewTripService(newTestEngine(tripFixture()), nil, nil)

	trip, err := svc.Create(context.Background(), CreateTripRequest{
		RouteID:      "route-1",
		BusID:        "bus-1",
		DriverID:     "driver-1",
		SupervisorID: "sup-1",
		Date:         "2025-03-20",
		StartTime:    "08:00",
		EndTime:      "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TripScheduled, trip.Status)
	assert.Zero(t, trip.Passengers)
}

func TestCreateTrip_RoleChecks(t *testing.T) {
	svc := NewTripService(newTestEngine(tripFixture()), nil, nil)

	// A student is not a driver.
	_, err := svc.Create(context.Background(), CreateTripRequest{
		RouteID:   "route-1",
		BusID:     "bus-1",
		DriverID:  "stu-1",
		Date:      "2025-03-20",
		StartTime: "08:00",
		EndTime:   "09:30",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	// A driver is not a supervisor.
	_, err = svc.Create(context.Background(), CreateTripRequest{
		RouteID:      "route-1",
		BusID:        "bus-1",
		DriverID:     "driver-1",
		SupervisorID: "driver-1",
		Date:         "2025-03-20",
		StartTime:    "08:00",
		EndTime:      "09:30",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCreateTrip_RejectsBadSchedule(t *testing.T) {
	svc := NewTripService(newTestEngine(tripFixture()), nil, nil)

	_, err := svc.Create(context.Background(), CreateTripRequest{
		RouteID:   "route-1",
		BusID:     "bus-1",
		DriverID:  "driver-1",
		Date:      "20/03/2025",
		StartTime: "08:00",
		EndTime:   "09:30",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), CreateTripRequest{
		RouteID:   "route-1",
		BusID:     "bus-1",
		DriverID:  "driver-1",
		Date:      "2025-03-20",
		StartTime: "8am",
		EndTime:   "09:30",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestUpdateTrip_FrozenWhenTerminal(t *testing.T) {
	snap := tripFixture()
	trip := seedTrip("trip-1", "route-1", "bus-1")
	trip.Status = models.TripCompleted
	snap.Trips = append(snap.Trips, trip)

	svc := NewTripService(newTestEngine(snap), nil, nil)

	date := "2025-03-25"
	_, err := svc.Update(context.Background(), "trip-1", UpdateTripRequest{Date: &date})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestCancelTrip(t *testing.T) {
	snap := tripFixture()
	snap.Trips = append(snap.Trips, seedTrip("trip-1", "route-1", "bus-1"))

	svc := NewTripService(newTestEngine(snap), nil, nil)

	cancelled, err := svc.Cancel(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.Equal(t, models.TripCancelled, cancelled.Status)

	_, err = svc.Cancel(context.Background(), "trip-1")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestListTrips_Filters(t *testing.T) {
	snap := tripFixture()
	a := seedTrip("trip-1", "route-1", "bus-1")
	b := seedTrip("trip-2", "route-1", "bus-1")
	b.Date = "2025-03-21"
	c := seedTrip("trip-3", "route-1", "bus-1")
	c.Status = models.TripCancelled
	snap.Trips = append(snap.Trips, a, b, c)

	svc := NewTripService(newTestEngine(snap), nil, nil)

	byDate, err := svc.List(context.Background(), "", "", "", "2025-03-21")
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "trip-2", byDate[0].ID)

	cancelled, err := svc.List(context.Background(), "cancelled", "", "", "")
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, "trip-3", cancelled[0].ID)
}

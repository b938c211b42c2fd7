package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

func bookingFixture() *models.Snapshot {
	snap := models.NewSnapshot()
	snap.Users = append(snap.Users, seedStudent("stu-1"), seedStudent("stu-2"))
	snap.Buses = append(snap.Buses, seedBus("bus-1", "B-101", 30))
	snap.Trips = append(snap.Trips, seedTrip("trip-1", "route-1", "bus-1"))
	return snap
}

func TestCreateBooking_CountsPassenger(t *testing.T) {
	eng := newTestEngine(bookingFixture())
	svc := NewBookingService(eng, nil, nil)

	booking, err := svc.Create(context.Background(), CreateBookingRequest{StudentID: "stu-1", TripID: "trip-1"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)

	trip, err := NewTripService(eng, nil, nil).Get(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.Equal(t, 1, trip.Passengers)
}

func TestCreateBooking_DuplicateCountedBookingRejected(t *testing.T) {
	svc := NewBookingService(newTestEngine(bookingFixture()), nil, nil)

	_, err := svc.Create(context.Background(), CreateBookingRequest{StudentID: "stu-1", TripID: "trip-1"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateBookingRequest{StudentID: "stu-1", TripID: "trip-1"})
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestCreateBooking_TerminalTripNotBookable(t *testing.T) {
	snap := bookingFixture()
	snap.Trips[0].Status = models.TripCancelled
	svc := NewBookingService(newTestEngine(snap), nil, nil)

	_, err := svc.Create(context.Background(), CreateBookingRequest{StudentID: "stu-1", TripID: "trip-1"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestCancelBooking_ReleasesSeat(t *testing.T) {
	eng := newTestEngine(bookingFixture())
	svc := NewBookingService(eng, nil, nil)

	booking, err := svc.Create(context.Background(), CreateBookingRequest{StudentID: "stu-1", TripID: "trip-1"})
	require.NoError(t, err)

	admin := models.Identity{UserID: "admin-1", Role: models.RoleAdmin}
	cancelled, err := svc.Cancel(context.Background(), admin, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	trip, err := NewTripService(eng, nil, nil).Get(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.Equal(t, 0, trip.Passengers)

	// Cancelled is terminal.
	_, err = svc.Cancel(context.Background(), admin, booking.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestCancelBooking_StudentOwnershipEnforced(t *testing.T) {
	svc := NewBookingService(newTestEngine(bookingFixture()), nil, nil)

	booking, err := svc.Create(context.Background(), CreateBookingRequest{StudentID: "stu-1", TripID: "trip-1"})
	require.NoError(t, err)

	other := models.Identity{UserID: "stu-2", Role: models.RoleStudent}
	_, err = svc.Cancel(context.Background(), other, booking.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	owner := models.Identity{UserID: "stu-1", Role: models.RoleStudent}
	_, err = svc.Cancel(context.Background(), owner, booking.ID)
	assert.NoError(t, err)
}

func TestListBookings_Filters(t *testing.T) {
	svc := NewBookingService(newTestEngine(bookingFixture()), nil, nil)

	_, err := svc.Create(context.Background(), CreateBookingRequest{StudentID: "stu-1", TripID: "trip-1"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateBookingRequest{StudentID: "stu-2", TripID: "trip-1"})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "", "trip-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(context.Background(), "stu-1", "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "stu-1", mine[0].StudentID)
}

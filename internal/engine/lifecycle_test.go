package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
)

func trip(id string, date, start, end string, status models.TripStatus) models.Trip {
	return models.Trip{ID: id, Date: date, StartTime: start, EndTime: end, Status: status}
}

func TestApplyLifecycle_Transitions(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	snap := models.NewSnapshot()
	snap.Trips = append(snap.Trips,
		trip("future", "2025-03-16", "08:00", "09:00", models.TripScheduled),
		trip("running", "2025-03-15", "11:00", "13:00", models.TripScheduled),
		trip("over", "2025-03-15", "08:00", "09:00", models.TripScheduled),
		trip("active-over", "2025-03-15", "08:00", "11:30", models.TripActive),
	)

	n := ApplyLifecycle(snap, now)
	assert.Equal(t, 3, n)

	assert.Equal(t, models.TripScheduled, snap.TripByID("future").Status)
	assert.Equal(t, models.TripActive, snap.TripByID("running").Status)
	assert.Equal(t, models.TripCompleted, snap.TripByID("over").Status)
	assert.Equal(t, models.TripCompleted, snap.TripByID("active-over").Status)
}

func TestApplyLifecycle_Idempotent(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	snap := models.NewSnapshot()
	snap.Trips = append(snap.Trips, trip("over", "2025-03-15", "08:00", "09:00", models.TripScheduled))

	assert.Equal(t, 1, ApplyLifecycle(snap, now))
	assert.Equal(t, 0, ApplyLifecycle(snap, now))
}

func TestApplyLifecycle_TerminalNeverRegresses(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	snap := models.NewSnapshot()
	snap.Trips = append(snap.Trips,
		// Cancelled before its window; the clock says it should be active.
		trip("cancelled", "2025-03-15", "11:00", "13:00", models.TripCancelled),
		trip("completed", "2025-03-16", "08:00", "09:00", models.TripCompleted),
	)

	assert.Equal(t, 0, ApplyLifecycle(snap, now))
	assert.Equal(t, models.TripCancelled, snap.TripByID("cancelled").Status)
	assert.Equal(t, models.TripCompleted, snap.TripByID("completed").Status)
}

func TestApplyLifecycle_MalformedTimesSkipped(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	snap := models.NewSnapshot()
	snap.Trips = append(snap.Trips,
		trip("no-date", "", "08:00", "09:00", models.TripScheduled),
		trip("bad-time", "2025-03-15", "8 o'clock", "09:00", models.TripScheduled),
		trip("no-end", "2025-03-15", "08:00", "", models.TripScheduled),
	)

	assert.Equal(t, 0, ApplyLifecycle(snap, now))
	for _, tr := range snap.Trips {
		assert.Equal(t, models.TripScheduled, tr.Status, tr.ID)
	}
}

func TestTripDurationMinutes(t *testing.T) {
	assert.Equal(t, 90, TripDurationMinutes("08:00", "09:30"))
	assert.Equal(t, 0, TripDurationMinutes("", "09:30"))
	assert.Equal(t, 0, TripDurationMinutes("08:00", "bad"))
}

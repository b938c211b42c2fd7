package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

func attendanceFixture() *models.Snapshot {
	snap := models.NewSnapshot()
	snap.Users = append(snap.Users, seedStudent("stu-1"))
	snap.Trips = append(snap.Trips, seedTrip("trip-1", "route-1", "bus-1"))
	return snap
}

func TestSubmitAttendance_UpsertsSamePair(t *testing.T) {
	svc := NewAttendanceService(newTestEngine(attendanceFixture()), nil, nil)

	first, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		StudentID: "stu-1",
		TripID:    "trip-1",
		Status:    "present",
	})
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		StudentID: "stu-1",
		TripID:    "trip-1",
		Status:    "absent",
		Notes:     "left early",
	})
	require.NoError(t, err)

	// Same record, updated in place.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.AttendanceAbsent, second.Status)
	assert.Equal(t, "left early", second.Notes)

	records, err := svc.List(context.Background(), "trip-1", "")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSubmitAttendance_StatusNormalizedToLowercase(t *testing.T) {
	svc := NewAttendanceService(newTestEngine(attendanceFixture()), nil, nil)

	record, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		StudentID: "stu-1",
		TripID:    "trip-1",
		Status:    "Present",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, record.Status)
}

func TestSubmitAttendance_RejectsUnknownStatus(t *testing.T) {
	svc := NewAttendanceService(newTestEngine(attendanceFixture()), nil, nil)

	_, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		StudentID: "stu-1",
		TripID:    "trip-1",
		Status:    "late",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestSubmitAttendance_UnknownReferences(t *testing.T) {
	svc := NewAttendanceService(newTestEngine(attendanceFixture()), nil, nil)

	_, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		StudentID: "ghost",
		TripID:    "trip-1",
		Status:    "present",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Submit(context.Background(), SubmitAttendanceRequest{
		StudentID: "stu-1",
		TripID:    "ghost",
		Status:    "present",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

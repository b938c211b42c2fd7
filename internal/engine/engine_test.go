package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	"github.com/campus-transit/shuttle-ops-api/internal/store"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

func TestUpdate_MutationPersists(t *testing.T) {
	st := store.NewMemoryStore(nil)
	eng := New(st, nil, nil)

	err := eng.Update(context.Background(), func(snap *models.Snapshot) (bool, error) {
		snap.Routes = append(snap.Routes, models.Route{ID: "route-1", Name: "North Gate"})
		return true, nil
	})
	require.NoError(t, err)

	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Routes, 1)
	assert.Equal(t, "North Gate", snap.Routes[0].Name)
}

func TestUpdate_ErrorLeavesNoPartialEffect(t *testing.T) {
	st := store.NewMemoryStore(nil)
	eng := New(st, nil, nil)

	err := eng.Update(context.Background(), func(snap *models.Snapshot) (bool, error) {
		snap.Routes = append(snap.Routes, models.Route{ID: "route-1"})
		return false, appErrors.ErrConflict
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Routes)
}

func TestUpdate_LifecyclePersistsBeforeFailedOperation(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	seed := models.NewSnapshot()
	seed.Trips = append(seed.Trips, models.Trip{
		ID:        "trip-1",
		Date:      "2025-03-15",
		StartTime: "08:00",
		EndTime:   "09:00",
		Status:    models.TripScheduled,
	})
	st := store.NewMemoryStore(seed)
	eng := New(st, func() time.Time { return now }, nil)

	err := eng.Update(context.Background(), func(snap *models.Snapshot) (bool, error) {
		return false, appErrors.ErrNotFound
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	// The derived status survives the failed operation.
	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TripCompleted, snap.TripByID("trip-1").Status)
}

func TestView_LifecyclePersistsOnReadPath(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	seed := models.NewSnapshot()
	seed.Trips = append(seed.Trips, models.Trip{
		ID:        "trip-1",
		Date:      "2025-03-15",
		StartTime: "11:00",
		EndTime:   "13:00",
		Status:    models.TripScheduled,
	})
	st := store.NewMemoryStore(seed)
	eng := New(st, func() time.Time { return now }, nil)

	err := eng.View(context.Background(), func(snap *models.Snapshot) error {
		assert.Equal(t, models.TripActive, snap.TripByID("trip-1").Status)
		return nil
	})
	require.NoError(t, err)

	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TripActive, snap.TripByID("trip-1").Status)
}

func TestOnSave_HookFires(t *testing.T) {
	eng := New(store.NewMemoryStore(nil), nil, nil)
	saves := 0
	eng.OnSave(func() { saves++ })

	err := eng.Update(context.Background(), func(snap *models.Snapshot) (bool, error) {
		snap.Routes = append(snap.Routes, models.Route{ID: "route-1"})
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saves)

	// A read with nothing to normalize does not persist.
	require.NoError(t, eng.View(context.Background(), func(*models.Snapshot) error { return nil }))
	assert.Equal(t, 1, saves)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

func TestCreateBus(t *testing.T) {
	eng := newTestEngine(models.NewSnapshot())
	svc := NewBusService(eng, nil, nil)

	bus, err := svc.Create(context.Background(), CreateBusRequest{Number: "B-101", Capacity: 30})
	require.NoError(t, err)
	assert.Equal(t, models.BusActive, bus.Status)
	assert.NotNil(t, bus.AssignedStudents)
	assert.Empty(t, bus.AssignedStudents)

	_, err = svc.Create(context.Background(), CreateBusRequest{Number: "B-101", Capacity: 40})
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestCreateBus_Validation(t *testing.T) {
	svc := NewBusService(newTestEngine(models.NewSnapshot()), nil, nil)

	_, err := svc.Create(context.Background(), CreateBusRequest{Number: "B-101", Capacity: 0})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), CreateBusRequest{Number: "B-101", Capacity: 30, Status: "flying"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestUpdateBus_CapacityFloor(t *testing.T) {
	snap := models.NewSnapshot()
	bus := seedBus("bus-1", "B-101", 30)
	bus.AssignedStudents = []string{"stu-1", "stu-2", "stu-3"}
	snap.Buses = append(snap.Buses, bus)

	svc := NewBusService(newTestEngine(snap), nil, nil)

	two := 2
	_, err := svc.Update(context.Background(), "bus-1", UpdateBusRequest{Capacity: &two})
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	ten := 10
	updated, err := svc.Update(context.Background(), "bus-1", UpdateBusRequest{Capacity: &ten})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Capacity)
}

func TestUpdateBus_SupervisorMustBeSupervisor(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Buses = append(snap.Buses, seedBus("bus-1", "B-101", 30))
	snap.Users = append(snap.Users, seedStudent("stu-1"), seedSupervisor("sup-1"))

	svc := NewBusService(newTestEngine(snap), nil, nil)

	student := "stu-1"
	_, err := svc.Update(context.Background(), "bus-1", UpdateBusRequest{AssignedSupervisorID: &student})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	sup := "sup-1"
	updated, err := svc.Update(context.Background(), "bus-1", UpdateBusRequest{AssignedSupervisorID: &sup})
	require.NoError(t, err)
	assert.Equal(t, "sup-1", updated.AssignedSupervisorID)
}

func TestDeleteBus_ClearsStudentBackReferences(t *testing.T) {
	snap := models.NewSnapshot()
	student := seedStudent("stu-1")
	student.AssignedBusID = "bus-1"
	snap.Users = append(snap.Users, student)
	bus := seedBus("bus-1", "B-101", 30)
	bus.AssignedStudents = []string{"stu-1"}
	snap.Buses = append(snap.Buses, bus)

	eng := newTestEngine(snap)
	svc := NewBusService(eng, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "bus-1"))

	_, err := svc.Get(context.Background(), "bus-1")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	students, err := NewUserService(eng, nil, nil).List(context.Background(), "student")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Empty(t, students[0].AssignedBusID)
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-transit/shuttle-ops-api/internal/engine"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

// AssignmentService enforces the capacity and subscription invariants when
// placing students on buses.
type AssignmentService struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(eng *engine.Engine, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{engine: eng, logger: logger}
}

// Assign places a student on a bus roster. The whole check-then-write runs
// as one critical section, so two concurrent assignments can never push a
// roster past the seat ceiling.
func (s *AssignmentService) Assign(ctx context.Context, studentID, busID string) (*models.Bus, error) {
	var assigned *models.Bus
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		student := snap.StudentByID(studentID)
		if student == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		bus := snap.BusByID(busID)
		if bus == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "bus not found")
		}
		if !snap.HasCompletedPayment(studentID) {
			return false, appErrors.ErrSubscriptionInactive
		}
		if bus.HasStudent(studentID) {
			return false, appErrors.ErrAlreadyAssigned
		}
		if other := snap.BusOfStudent(studentID); other != nil {
			return false, appErrors.Clone(appErrors.ErrAlreadyAssigned, "student already assigned to bus "+other.Number)
		}
		if len(bus.AssignedStudents) >= bus.Capacity {
			return false, appErrors.ErrBusFull
		}

		now := s.engine.Now()
		bus.AssignedStudents = append(bus.AssignedStudents, studentID)
		bus.UpdatedAt = now
		student.AssignedBusID = busID
		student.SubscriptionStatus = models.SubscriptionActive
		student.UpdatedAt = now

		copied := *bus
		assigned = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("student assigned to bus", zap.String("student_id", studentID), zap.String("bus_id", busID))
	return assigned, nil
}

// Unassign removes a student from a bus roster and clears the back
// reference. Administrative inverse of Assign.
func (s *AssignmentService) Unassign(ctx context.Context, studentID, busID string) error {
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		bus := snap.BusByID(busID)
		if bus == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "bus not found")
		}
		idx := -1
		for i, id := range bus.AssignedStudents {
			if id == studentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, appErrors.Clone(appErrors.ErrNotFound, "student not on this bus")
		}

		now := s.engine.Now()
		bus.AssignedStudents = append(bus.AssignedStudents[:idx], bus.AssignedStudents[idx+1:]...)
		bus.UpdatedAt = now
		if student := snap.UserByID(studentID); student != nil && student.AssignedBusID == busID {
			student.AssignedBusID = ""
			student.UpdatedAt = now
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("student unassigned from bus", zap.String("student_id", studentID), zap.String("bus_id", busID))
	return nil
}

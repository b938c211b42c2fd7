package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-transit/shuttle-ops-api/internal/engine"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

// BusService manages the fleet records.
type BusService struct {
	engine    *engine.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBusService constructs the bus service.
func NewBusService(eng *engine.Engine, validate *validator.Validate, logger *zap.Logger) *BusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &BusService{engine: eng, validator: validate, logger: logger}
	svc.validator.RegisterValidation("bus_status", func(fl validator.FieldLevel) bool {
		return models.BusStatus(strings.ToLower(fl.Field().String())).Valid()
	})
	return svc
}

// CreateBusRequest registers a new vehicle.
type CreateBusRequest struct {
	Number              string `json:"number" validate:"required"`
	Capacity            int    `json:"capacity" validate:"required,gt=0"`
	Status              string `json:"status" validate:"omitempty,bus_status"`
	MaintenanceInterval int    `json:"maintenanceInterval" validate:"omitempty,gt=0"`
}

// UpdateBusRequest adjusts vehicle fields.
type UpdateBusRequest struct {
	Number               *string    `json:"number"`
	Capacity             *int       `json:"capacity" validate:"omitempty,gt=0"`
	Status               *string    `json:"status" validate:"omitempty,bus_status"`
	AssignedSupervisorID *string    `json:"assignedSupervisorId"`
	LastMaintenance      *time.Time `json:"lastMaintenance"`
	MaintenanceInterval  *int       `json:"maintenanceInterval" validate:"omitempty,gt=0"`
}

// Create registers a bus with an empty roster.
func (s *BusService) Create(ctx context.Context, req CreateBusRequest) (*models.Bus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bus payload")
	}

	status := models.BusStatus(strings.ToLower(req.Status))
	if req.Status == "" {
		status = models.BusActive
	}

	var created *models.Bus
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		for i := range snap.Buses {
			if snap.Buses[i].Number == req.Number {
				return false, appErrors.Clone(appErrors.ErrConflict, "bus number already registered")
			}
		}

		now := s.engine.Now()
		bus := models.Bus{
			ID:                  uuid.NewString(),
			Number:              req.Number,
			Capacity:            req.Capacity,
			Status:              status,
			AssignedStudents:    []string{},
			MaintenanceInterval: req.MaintenanceInterval,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		snap.Buses = append(snap.Buses, bus)
		created = &bus
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bus registered", zap.String("bus_id", created.ID), zap.String("number", req.Number))
	return created, nil
}

// Update modifies a bus. Capacity can never drop below the current roster.
func (s *BusService) Update(ctx context.Context, busID string, req UpdateBusRequest) (*models.Bus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bus payload")
	}

	var updated *models.Bus
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		bus := snap.BusByID(busID)
		if bus == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "bus not found")
		}

		if req.Capacity != nil && *req.Capacity < len(bus.AssignedStudents) {
			return false, appErrors.Clone(appErrors.ErrConflict, "capacity below current roster size")
		}
		if req.AssignedSupervisorID != nil && *req.AssignedSupervisorID != "" {
			sup := snap.UserByID(*req.AssignedSupervisorID)
			if sup == nil || sup.Role != models.RoleSupervisor {
				return false, appErrors.Clone(appErrors.ErrNotFound, "supervisor not found")
			}
		}

		if req.Number != nil {
			bus.Number = *req.Number
		}
		if req.Capacity != nil {
			bus.Capacity = *req.Capacity
		}
		if req.Status != nil {
			bus.Status = models.BusStatus(strings.ToLower(*req.Status))
		}
		if req.AssignedSupervisorID != nil {
			bus.AssignedSupervisorID = *req.AssignedSupervisorID
		}
		if req.LastMaintenance != nil {
			bus.LastMaintenance = req.LastMaintenance
		}
		if req.MaintenanceInterval != nil {
			bus.MaintenanceInterval = *req.MaintenanceInterval
		}
		bus.UpdatedAt = s.engine.Now()

		copied := *bus
		updated = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns one bus.
func (s *BusService) Get(ctx context.Context, busID string) (*models.Bus, error) {
	var bus *models.Bus
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		b := snap.BusByID(busID)
		if b == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "bus not found")
		}
		copied := *b
		bus = &copied
		return nil
	})
	return bus, err
}

// List returns the fleet, optionally filtered by status.
func (s *BusService) List(ctx context.Context, status string) ([]models.Bus, error) {
	var out []models.Bus
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = make([]models.Bus, 0, len(snap.Buses))
		for _, b := range snap.Buses {
			if status != "" && string(b.Status) != status {
				continue
			}
			out = append(out, b)
		}
		return nil
	})
	return out, err
}

// Delete excises a bus record without cascading. Student back references are
// cleared so the roster invariant survives; trips keep their dangling busId
// and resolve to an absent summary in joins.
func (s *BusService) Delete(ctx context.Context, busID string) error {
	return s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		idx := -1
		for i := range snap.Buses {
			if snap.Buses[i].ID == busID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, appErrors.Clone(appErrors.ErrNotFound, "bus not found")
		}

		now := s.engine.Now()
		for _, studentID := range snap.Buses[idx].AssignedStudents {
			if student := snap.UserByID(studentID); student != nil && student.AssignedBusID == busID {
				student.AssignedBusID = ""
				student.UpdatedAt = now
			}
		}
		snap.Buses = append(snap.Buses[:idx], snap.Buses[idx+1:]...)
		return true, nil
	})
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-transit/shuttle-ops-api/internal/engine"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

// TripService schedules and cancels trips. Status derivation itself lives in
// the engine's lifecycle pass; this service only performs operator writes.
type TripService struct {
	engine    *engine.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTripService constructs the trip service.
func NewTripService(eng *engine.Engine, validate *validator.Validate, logger *zap.Logger) *TripService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TripService{engine: eng, validator: validate, logger: logger}
}

// CreateTripRequest schedules a trip.
type CreateTripRequest struct {
	RouteID      string `json:"routeId" validate:"required"`
	BusID        string `json:"busId" validate:"required"`
	DriverID     string `json:"driverId" validate:"required"`
	SupervisorID string `json:"supervisorId"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime      string `json:"endTime" validate:"required,datetime=15:04"`
}

// UpdateTripRequest adjusts schedule fields on a trip.
type UpdateTripRequest struct {
	RouteID      *string `json:"routeId"`
	BusID        *string `json:"busId"`
	DriverID     *string `json:"driverId"`
	SupervisorID *string `json:"supervisorId"`
	Date         *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime    *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime      *string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

// Create schedules a new trip after checking its references.
func (s *TripService) Create(ctx context.Context, req CreateTripRequest) (*models.Trip, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trip payload")
	}

	var created *models.Trip
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		if snap.RouteByID(req.RouteID) == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "route not found")
		}
		if snap.BusByID(req.BusID) == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "bus not found")
		}
		driver := snap.UserByID(req.DriverID)
		if driver == nil || driver.Role != models.RoleDriver {
			return false, appErrors.Clone(appErrors.ErrNotFound, "driver not found")
		}
		if req.SupervisorID != "" {
			sup := snap.UserByID(req.SupervisorID)
			if sup == nil || sup.Role != models.RoleSupervisor {
				return false, appErrors.Clone(appErrors.ErrNotFound, "supervisor not found")
			}
		}

		now := s.engine.Now()
		trip := models.Trip{
			ID:           uuid.NewString(),
			RouteID:      req.RouteID,
			BusID:        req.BusID,
			DriverID:     req.DriverID,
			SupervisorID: req.SupervisorID,
			Date:         req.Date,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			Status:       models.TripScheduled,
			Passengers:   0,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		snap.Trips = append(snap.Trips, trip)
		created = &trip
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("trip scheduled", zap.String("trip_id", created.ID), zap.String("route_id", req.RouteID))
	return created, nil
}

// Update modifies schedule fields. Completed and cancelled trips are frozen.
func (s *TripService) Update(ctx context.Context, tripID string, req UpdateTripRequest) (*models.Trip, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trip payload")
	}

	var updated *models.Trip
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		trip := snap.TripByID(tripID)
		if trip == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "trip not found")
		}
		if trip.Status.Terminal() {
			return false, appErrors.Clone(appErrors.ErrInvalidTransition, "trip is finalized")
		}

		if req.RouteID != nil {
			if snap.RouteByID(*req.RouteID) == nil {
				return false, appErrors.Clone(appErrors.ErrNotFound, "route not found")
			}
			trip.RouteID = *req.RouteID
		}
		if req.BusID != nil {
			if snap.BusByID(*req.BusID) == nil {
				return false, appErrors.Clone(appErrors.ErrNotFound, "bus not found")
			}
			trip.BusID = *req.BusID
		}
		if req.DriverID != nil {
			driver := snap.UserByID(*req.DriverID)
			if driver == nil || driver.Role != models.RoleDriver {
				return false, appErrors.Clone(appErrors.ErrNotFound, "driver not found")
			}
			trip.DriverID = *req.DriverID
		}
		if req.SupervisorID != nil {
			if *req.SupervisorID != "" {
				sup := snap.UserByID(*req.SupervisorID)
				if sup == nil || sup.Role != models.RoleSupervisor {
					return false, appErrors.Clone(appErrors.ErrNotFound, "supervisor not found")
				}
			}
			trip.SupervisorID = *req.SupervisorID
		}
		if req.Date != nil {
			trip.Date = *req.Date
		}
		if req.StartTime != nil {
			trip.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			trip.EndTime = *req.EndTime
		}
		trip.UpdatedAt = s.engine.Now()

		copied := *trip
		updated = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel sets a trip to cancelled. This is the one operator-driven terminal
// transition; the lifecycle pass never reverts it.
func (s *TripService) Cancel(ctx context.Context, tripID string) (*models.Trip, error) {
	var cancelled *models.Trip
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		trip := snap.TripByID(tripID)
		if trip == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "trip not found")
		}
		if trip.Status.Terminal() {
			return false, appErrors.Clone(appErrors.ErrInvalidTransition, "trip is already finalized")
		}
		trip.Status = models.TripCancelled
		trip.UpdatedAt = s.engine.Now()
		copied := *trip
		cancelled = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("trip cancelled", zap.String("trip_id", tripID))
	return cancelled, nil
}

// Get returns one trip, lifecycle-normalized.
func (s *TripService) Get(ctx context.Context, tripID string) (*models.Trip, error) {
	var trip *models.Trip
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		t := snap.TripByID(tripID)
		if t == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "trip not found")
		}
		copied := *t
		trip = &copied
		return nil
	})
	return trip, err
}

// List returns trips filtered by status, bus, route and/or date.
func (s *TripService) List(ctx context.Context, status, busID, routeID, date string) ([]models.Trip, error) {
	var out []models.Trip
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = make([]models.Trip, 0, len(snap.Trips))
		for _, t := range snap.Trips {
			if status != "" && string(t.Status) != status {
				continue
			}
			if busID != "" && t.BusID != busID {
				continue
			}
			if routeID != "" && t.RouteID != routeID {
				continue
			}
			if date != "" && t.Date != date {
				continue
			}
			out = append(out, t)
		}
		return nil
	})
	return out, err
}

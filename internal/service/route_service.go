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

// RouteService manages shuttle lines. Routes are never auto-deleted.
type RouteService struct {
	engine    *engine.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRouteService constructs the route service.
func NewRouteService(eng *engine.Engine, validate *validator.Validate, logger *zap.Logger) *RouteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteService{engine: eng, validator: validate, logger: logger}
}

// CreateRouteRequest registers a route.
type CreateRouteRequest struct {
	Name              string  `json:"name" validate:"required"`
	StartPoint        string  `json:"startPoint" validate:"required"`
	EndPoint          string  `json:"endPoint" validate:"required"`
	Distance          float64 `json:"distance" validate:"omitempty,gt=0"`
	EstimatedDuration int     `json:"estimatedDuration" validate:"omitempty,gt=0"`
}

// UpdateRouteRequest adjusts route fields.
type UpdateRouteRequest struct {
	Name              *string  `json:"name"`
	StartPoint        *string  `json:"startPoint"`
	EndPoint          *string  `json:"endPoint"`
	Distance          *float64 `json:"distance" validate:"omitempty,gt=0"`
	EstimatedDuration *int     `json:"estimatedDuration" validate:"omitempty,gt=0"`
}

// Create registers a route.
func (s *RouteService) Create(ctx context.Context, req CreateRouteRequest) (*models.Route, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}

	var created *models.Route
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		now := s.engine.Now()
		route := models.Route{
			ID:                uuid.NewString(),
			Name:              req.Name,
			StartPoint:        req.StartPoint,
			EndPoint:          req.EndPoint,
			Distance:          req.Distance,
			EstimatedDuration: req.EstimatedDuration,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		snap.Routes = append(snap.Routes, route)
		created = &route
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("route registered", zap.String("route_id", created.ID), zap.String("name", req.Name))
	return created, nil
}

// Update modifies a route.
func (s *RouteService) Update(ctx context.Context, routeID string, req UpdateRouteRequest) (*models.Route, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}

	var updated *models.Route
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		route := snap.RouteByID(routeID)
		if route == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "route not found")
		}

		if req.Name != nil {
			route.Name = *req.Name
		}
		if req.StartPoint != nil {
			route.StartPoint = *req.StartPoint
		}
		if req.EndPoint != nil {
			route.EndPoint = *req.EndPoint
		}
		if req.Distance != nil {
			route.Distance = *req.Distance
		}
		if req.EstimatedDuration != nil {
			route.EstimatedDuration = *req.EstimatedDuration
		}
		route.UpdatedAt = s.engine.Now()

		copied := *route
		updated = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns one route.
func (s *RouteService) Get(ctx context.Context, routeID string) (*models.Route, error) {
	var route *models.Route
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		r := snap.RouteByID(routeID)
		if r == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "route not found")
		}
		copied := *r
		route = &copied
		return nil
	})
	return route, err
}

// List returns all routes.
func (s *RouteService) List(ctx context.Context) ([]models.Route, error) {
	var out []models.Route
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = append([]models.Route{}, snap.Routes...)
		return nil
	})
	return out, err
}

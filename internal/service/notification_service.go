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

const (
	broadcastType     = "transport"
	broadcastPriority = "normal"
	defaultTitle      = "Transport notice"
)

// NotificationService appends notification records; delivery is an external
// collaborator's concern.
type NotificationService struct {
	engine    *engine.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService constructs the notification service.
func NewNotificationService(eng *engine.Engine, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{engine: eng, validator: validate, logger: logger}
}

// BroadcastRequest targets every student booked on a bus's trips.
type BroadcastRequest struct {
	BusID   string `json:"busId"`
	Title   string `json:"title"`
	Message string `json:"message" validate:"required"`
}

// Broadcast resolves the target bus, either explicitly or as the bus
// supervised by the caller, and appends one notification per distinct
// student with a booking on any of its trips. Returns the number notified;
// zero is not an error.
func (s *NotificationService) Broadcast(ctx context.Context, senderID string, req BroadcastRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid broadcast payload")
	}

	title := req.Title
	if title == "" {
		title = defaultTitle
	}

	notified := 0
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		var bus *models.Bus
		if req.BusID != "" {
			bus = snap.BusByID(req.BusID)
		} else {
			for i := range snap.Buses {
				if snap.Buses[i].AssignedSupervisorID == senderID {
					bus = &snap.Buses[i]
					break
				}
			}
		}
		if bus == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "no target bus resolved")
		}

		busTrips := make(map[string]struct{})
		for i := range snap.Trips {
			if snap.Trips[i].BusID == bus.ID {
				busTrips[snap.Trips[i].ID] = struct{}{}
			}
		}

		recipients := make(map[string]struct{})
		order := make([]string, 0)
		for _, b := range snap.Bookings {
			if _, ok := busTrips[b.TripID]; !ok {
				continue
			}
			if _, seen := recipients[b.StudentID]; seen {
				continue
			}
			recipients[b.StudentID] = struct{}{}
			order = append(order, b.StudentID)
		}

		now := s.engine.Now()
		for _, studentID := range order {
			snap.Notifications = append(snap.Notifications, models.Notification{
				ID:        uuid.NewString(),
				UserID:    studentID,
				SenderID:  senderID,
				Title:     title,
				Message:   req.Message,
				Type:      broadcastType,
				Priority:  broadcastPriority,
				Status:    models.NotificationUnread,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		notified = len(order)
		return notified > 0, nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("broadcast sent", zap.String("sender_id", senderID), zap.Int("notified", notified))
	return notified, nil
}

// ListForUser returns a user's notifications in insertion order.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = make([]models.Notification, 0)
		for _, n := range snap.Notifications {
			if n.UserID == userID {
				out = append(out, n)
			}
		}
		return nil
	})
	return out, err
}

// MarkRead flips a notification owned by the caller to read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		for i := range snap.Notifications {
			n := &snap.Notifications[i]
			if n.ID != notificationID {
				continue
			}
			if n.UserID != userID {
				return false, appErrors.Clone(appErrors.ErrForbidden, "not the notification owner")
			}
			if n.Status == models.NotificationRead {
				return false, nil
			}
			n.Status = models.NotificationRead
			n.UpdatedAt = s.engine.Now()
			return true, nil
		}
		return false, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	})
}

// Delete excises a notification owned by the caller.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	return s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		for i := range snap.Notifications {
			n := &snap.Notifications[i]
			if n.ID != notificationID {
				continue
			}
			if n.UserID != userID {
				return false, appErrors.Clone(appErrors.ErrForbidden, "not the notification owner")
			}
			snap.Notifications = append(snap.Notifications[:i], snap.Notifications[i+1:]...)
			return true, nil
		}
		return false, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	})
}

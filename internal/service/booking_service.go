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

// BookingService manages seat bookings and keeps trip passenger counts in
// step with them.
type BookingService struct {
	engine    *engine.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs the booking service.
func NewBookingService(eng *engine.Engine, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{engine: eng, validator: validate, logger: logger}
}

// CreateBookingRequest books a seat on a trip.
type CreateBookingRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	TripID    string `json:"tripId" validate:"required"`
}

// Create books a seat on a scheduled or active trip. The booking starts
// confirmed and counts against the trip's passenger figure.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	var created *models.Booking
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		if snap.StudentByID(req.StudentID) == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		trip := snap.TripByID(req.TripID)
		if trip == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "trip not found")
		}
		if trip.Status.Terminal() {
			return false, appErrors.Clone(appErrors.ErrInvalidTransition, "trip is no longer bookable")
		}
		for i := range snap.Bookings {
			b := &snap.Bookings[i]
			if b.StudentID == req.StudentID && b.TripID == req.TripID && b.Status.Counted() {
				return false, appErrors.Clone(appErrors.ErrConflict, "student already booked on this trip")
			}
		}

		now := s.engine.Now()
		booking := models.Booking{
			ID:        uuid.NewString(),
			StudentID: req.StudentID,
			TripID:    req.TripID,
			Status:    models.BookingConfirmed,
			Date:      now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		snap.Bookings = append(snap.Bookings, booking)
		trip.Passengers++
		trip.UpdatedAt = now
		created = &booking
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created", zap.String("booking_id", created.ID), zap.String("trip_id", req.TripID))
	return created, nil
}

// Cancel voids a booking. Students may cancel their own; operators may
// cancel any. A counted booking releases its seat.
func (s *BookingService) Cancel(ctx context.Context, caller models.Identity, bookingID string) (*models.Booking, error) {
	var cancelled *models.Booking
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		booking := snap.BookingByID(bookingID)
		if booking == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		if caller.Role == models.RoleStudent && booking.StudentID != caller.UserID {
			return false, appErrors.Clone(appErrors.ErrForbidden, "cannot cancel another student's booking")
		}
		if booking.Status == models.BookingCancelled || booking.Status == models.BookingCompleted {
			return false, appErrors.Clone(appErrors.ErrInvalidTransition, "booking already finalized")
		}

		now := s.engine.Now()
		wasCounted := booking.Status.Counted()
		booking.Status = models.BookingCancelled
		booking.UpdatedAt = now
		if trip := snap.TripByID(booking.TripID); trip != nil && wasCounted && trip.Passengers > 0 {
			trip.Passengers--
			trip.UpdatedAt = now
		}
		copied := *booking
		cancelled = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled", zap.String("booking_id", bookingID))
	return cancelled, nil
}

// List returns bookings filtered by student and/or trip.
func (s *BookingService) List(ctx context.Context, studentID, tripID string) ([]models.Booking, error) {
	var out []models.Booking
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = make([]models.Booking, 0, len(snap.Bookings))
		for _, b := range snap.Bookings {
			if studentID != "" && b.StudentID != studentID {
				continue
			}
			if tripID != "" && b.TripID != tripID {
				continue
			}
			out = append(out, b)
		}
		return nil
	})
	return out, err
}

package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-transit/shuttle-ops-api/internal/engine"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

// AttendanceService records per-trip attendance marks.
type AttendanceService struct {
	engine    *engine.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(eng *engine.Engine, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{engine: eng, validator: validate, logger: logger}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(strings.ToLower(fl.Field().String())).Valid()
	})
	return svc
}

// SubmitAttendanceRequest marks a student on a trip.
type SubmitAttendanceRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	TripID    string `json:"tripId" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
	Notes     string `json:"notes"`
}

// Submit upserts the attendance mark for a (studentId, tripId) pair. A
// repeated submission updates the existing record; the collection never
// grows for the same pair.
func (s *AttendanceService) Submit(ctx context.Context, req SubmitAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	var saved *models.AttendanceRecord
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		if snap.StudentByID(req.StudentID) == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		if snap.TripByID(req.TripID) == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "trip not found")
		}

		now := s.engine.Now()
		status := models.AttendanceStatus(strings.ToLower(req.Status))

		if existing := snap.AttendanceFor(req.StudentID, req.TripID); existing != nil {
			existing.Status = status
			existing.Notes = req.Notes
			existing.Timestamp = now
			copied := *existing
			saved = &copied
			return true, nil
		}

		record := models.AttendanceRecord{
			ID:        uuid.NewString(),
			StudentID: req.StudentID,
			TripID:    req.TripID,
			Status:    status,
			Timestamp: now,
			Notes:     req.Notes,
		}
		snap.Attendance = append(snap.Attendance, record)
		saved = &record
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendance recorded",
		zap.String("student_id", req.StudentID),
		zap.String("trip_id", req.TripID),
		zap.String("status", string(saved.Status)))
	return saved, nil
}

// List returns attendance records filtered by trip and/or student.
func (s *AttendanceService) List(ctx context.Context, tripID, studentID string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = make([]models.AttendanceRecord, 0, len(snap.Attendance))
		for _, a := range snap.Attendance {
			if tripID != "" && a.TripID != tripID {
				continue
			}
			if studentID != "" && a.StudentID != studentID {
				continue
			}
			out = append(out, a)
		}
		return nil
	})
	return out, err
}

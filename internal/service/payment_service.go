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

// PaymentService canonicalizes payment methods and governs settlement.
type PaymentService struct {
	engine    *engine.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(eng *engine.Engine, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{engine: eng, validator: validate, logger: logger}
}

// CreatePaymentRequest describes a new payment.
type CreatePaymentRequest struct {
	StudentID string  `json:"studentId" validate:"required"`
	TripID    string  `json:"tripId"`
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required"`
}

// SettlePaymentRequest moves a pending payment to a terminal status.
type SettlePaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=completed failed"`
}

// Create records a payment. The method canonicalizes to cash or bank; cash
// starts pending and awaits manual settlement, bank is treated as
// pre-cleared and starts completed.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	var created *models.Payment
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		if snap.StudentByID(req.StudentID) == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		if req.TripID != "" && snap.TripByID(req.TripID) == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "trip not found")
		}

		method := models.CanonicalMethod(req.Method)
		status := models.PaymentCompleted
		if method == models.MethodCash {
			status = models.PaymentPending
		}

		now := s.engine.Now()
		payment := models.Payment{
			ID:        uuid.NewString(),
			StudentID: req.StudentID,
			TripID:    req.TripID,
			BookingID: req.BookingID,
			Amount:    req.Amount,
			Method:    method,
			Status:    status,
			Date:      now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		snap.Payments = append(snap.Payments, payment)
		created = &payment
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", created.ID),
		zap.String("method", string(created.Method)),
		zap.String("status", string(created.Status)))
	return created, nil
}

// Settle transitions a pending payment to completed or failed. Only the
// supervisor assigned to the payment's trip may settle it.
func (s *PaymentService) Settle(ctx context.Context, supervisorID, paymentID string, req SettlePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settlement payload")
	}

	var settled *models.Payment
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		payment := snap.PaymentByID(paymentID)
		if payment == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}

		trip := snap.TripByID(payment.TripID)
		if trip == nil || trip.SupervisorID != supervisorID {
			return false, appErrors.Clone(appErrors.ErrForbidden, "payment belongs to another supervisor's trip")
		}
		if payment.Status != models.PaymentPending {
			return false, appErrors.Clone(appErrors.ErrInvalidTransition, "payment is not pending")
		}

		payment.Status = models.PaymentStatus(req.Status)
		payment.UpdatedAt = s.engine.Now()
		copied := *payment
		settled = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment settled",
		zap.String("payment_id", paymentID),
		zap.String("status", string(settled.Status)),
		zap.String("supervisor_id", supervisorID))
	return settled, nil
}

// List returns payments, optionally filtered by student.
func (s *PaymentService) List(ctx context.Context, studentID string) ([]models.Payment, error) {
	var out []models.Payment
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = make([]models.Payment, 0, len(snap.Payments))
		for _, p := range snap.Payments {
			if studentID != "" && p.StudentID != studentID {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// Delete excises a payment record. No cascade; joins tolerate the gap.
func (s *PaymentService) Delete(ctx context.Context, paymentID string) error {
	return s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		for i := range snap.Payments {
			if snap.Payments[i].ID == paymentID {
				snap.Payments = append(snap.Payments[:i], snap.Payments[i+1:]...)
				return true, nil
			}
		}
		return false, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
	})
}

package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-transit/shuttle-ops-api/internal/engine"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

// UserService manages accounts. Authentication happens upstream; this
// service only stores credentials at rest and profile data.
type UserService struct {
	engine    *engine.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the user service.
func NewUserService(eng *engine.Engine, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &UserService{engine: eng, validator: validate, logger: logger}
	svc.validator.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(strings.ToLower(fl.Field().String())).Valid()
	})
	return svc
}

// CreateUserRequest registers an account.
type CreateUserRequest struct {
	Role          string `json:"role" validate:"required,user_role"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Password      string `json:"password" validate:"omitempty,min=8"`
	StudentID     string `json:"studentId"`
	Department    string `json:"department"`
	LicenseNumber string `json:"licenseNumber"`
}

// UpdateUserRequest adjusts profile fields.
type UpdateUserRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Password      *string `json:"password" validate:"omitempty,min=8"`
	Department    *string `json:"department"`
	LicenseNumber *string `json:"licenseNumber"`
}

// Create registers a user. Student accounts start with an inactive
// subscription until a payment settles.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	role := models.UserRole(strings.ToLower(req.Role))

	var hash string
	if req.Password != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "hash password")
		}
		hash = string(raw)
	}

	var created *models.User
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		if req.Email != "" {
			for i := range snap.Users {
				if snap.Users[i].Email == req.Email {
					return false, appErrors.Clone(appErrors.ErrConflict, "email already registered")
				}
			}
		}

		now := s.engine.Now()
		user := models.User{
			ID:            uuid.NewString(),
			Role:          role,
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			PasswordHash:  hash,
			StudentID:     req.StudentID,
			Department:    req.Department,
			LicenseNumber: req.LicenseNumber,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if role == models.RoleStudent {
			user.SubscriptionStatus = models.SubscriptionInactive
		}
		snap.Users = append(snap.Users, user)
		created = &user
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", created.ID), zap.String("role", string(created.Role)))
	return sanitize(created), nil
}

// Update modifies profile fields on an account.
func (s *UserService) Update(ctx context.Context, userID string, req UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	var hash string
	if req.Password != nil && *req.Password != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "hash password")
		}
		hash = string(raw)
	}

	var updated *models.User
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		user := snap.UserByID(userID)
		if user == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if hash != "" {
			user.PasswordHash = hash
		}
		if req.Department != nil {
			user.Department = *req.Department
		}
		if req.LicenseNumber != nil {
			user.LicenseNumber = *req.LicenseNumber
		}
		user.UpdatedAt = s.engine.Now()

		copied := *user
		updated = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return sanitize(updated), nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		u := snap.UserByID(userID)
		if u == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		copied := *u
		user = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sanitize(user), nil
}

// List returns accounts, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	var out []models.User
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = make([]models.User, 0, len(snap.Users))
		for _, u := range snap.Users {
			if role != "" && string(u.Role) != role {
				continue
			}
			u.PasswordHash = ""
			out = append(out, u)
		}
		return nil
	})
	return out, err
}

// sanitize strips the password hash before a record leaves the engine.
func sanitize(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	u.PasswordHash = ""
	return u
}

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

// AnnouncementService manages role-targeted broadcast records.
type AnnouncementService struct {
	engine    *engine.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the announcement service.
func NewAnnouncementService(eng *engine.Engine, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{engine: eng, validator: validate, logger: logger}
}

// CreateAnnouncementRequest publishes an announcement. Empty target roles
// means visible to everyone.
type CreateAnnouncementRequest struct {
	Title       string   `json:"title" validate:"required"`
	Message     string   `json:"message" validate:"required"`
	Type        string   `json:"type"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low normal high"`
	TargetRoles []string `json:"targetRoles"`
}

// Create appends an announcement record.
func (s *AnnouncementService) Create(ctx context.Context, createdBy string, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	roles := make([]models.UserRole, 0, len(req.TargetRoles))
	for _, r := range req.TargetRoles {
		role := models.UserRole(strings.ToLower(r))
		if !role.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown target role: "+r)
		}
		roles = append(roles, role)
	}

	priority := req.Priority
	if priority == "" {
		priority = broadcastPriority
	}
	kind := req.Type
	if kind == "" {
		kind = "general"
	}

	var created *models.Announcement
	err := s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		now := s.engine.Now()
		ann := models.Announcement{
			ID:          uuid.NewString(),
			Title:       req.Title,
			Message:     req.Message,
			Type:        kind,
			Priority:    priority,
			Status:      "published",
			TargetRoles: roles,
			CreatedBy:   createdBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		snap.Announcements = append(snap.Announcements, ann)
		created = &ann
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("announcement published", zap.String("announcement_id", created.ID))
	return created, nil
}

// ListForRole returns announcements visible to the given role.
func (s *AnnouncementService) ListForRole(ctx context.Context, role models.UserRole) ([]models.Announcement, error) {
	var out []models.Announcement
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = make([]models.Announcement, 0, len(snap.Announcements))
		for _, a := range snap.Announcements {
			if len(a.TargetRoles) == 0 || role == models.RoleAdmin {
				out = append(out, a)
				continue
			}
			for _, target := range a.TargetRoles {
				if target == role {
					out = append(out, a)
					break
				}
			}
		}
		return nil
	})
	return out, err
}

// Delete excises an announcement record.
func (s *AnnouncementService) Delete(ctx context.Context, announcementID string) error {
	return s.engine.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		for i := range snap.Announcements {
			if snap.Announcements[i].ID == announcementID {
				snap.Announcements = append(snap.Announcements[:i], snap.Announcements[i+1:]...)
				return true, nil
			}
		}
		return false, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-transit/shuttle-ops-api/internal/service"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
	"github.com/campus-transit/shuttle-ops-api/pkg/response"
)

// AnnouncementHandler exposes announcement endpoints.
type AnnouncementHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementHandler constructs AnnouncementHandler.
func NewAnnouncementHandler(announcements *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ann, err := h.announcements.Create(c.Request.Context(), identityFromContext(c).UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ann)
}

// List returns announcements visible to the caller's role.
func (h *AnnouncementHandler) List(c *gin.Context) {
	anns, err := h.announcements.ListForRole(c.Request.Context(), identityFromContext(c).Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, anns)
}

func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.announcements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

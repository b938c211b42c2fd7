package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-transit/shuttle-ops-api/internal/service"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
	"github.com/campus-transit/shuttle-ops-api/pkg/response"
)

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Submit upserts the mark for a (studentId, tripId) pair.
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req service.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

func (h *AttendanceHandler) List(c *gin.Context) {
	records, err := h.attendance.List(c.Request.Context(), c.Query("tripId"), c.Query("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

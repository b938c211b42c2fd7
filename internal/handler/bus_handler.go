package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-transit/shuttle-ops-api/internal/service"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
	"github.com/campus-transit/shuttle-ops-api/pkg/response"
)

// BusHandler exposes fleet endpoints, including roster assignment.
type BusHandler struct {
	buses      *service.BusService
	assignment *service.AssignmentService
}

// NewBusHandler constructs BusHandler.
func NewBusHandler(buses *service.BusService, assignment *service.AssignmentService) *BusHandler {
	return &BusHandler{buses: buses, assignment: assignment}
}

func (h *BusHandler) Create(c *gin.Context) {
	var req service.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bus, err := h.buses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bus)
}

func (h *BusHandler) List(c *gin.Context) {
	buses, err := h.buses.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buses)
}

func (h *BusHandler) Get(c *gin.Context) {
	bus, err := h.buses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus)
}

func (h *BusHandler) Update(c *gin.Context) {
	var req service.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bus, err := h.buses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus)
}

func (h *BusHandler) Delete(c *gin.Context) {
	if err := h.buses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type assignStudentRequest struct {
	StudentID string `json:"studentId" binding:"required"`
}

// AssignStudent places a student on the bus roster, enforcing the capacity
// and subscription invariants.
func (h *BusHandler) AssignStudent(c *gin.Context) {
	var req assignStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bus, err := h.assignment.Assign(c.Request.Context(), req.StudentID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus)
}

// UnassignStudent removes a student from the bus roster.
func (h *BusHandler) UnassignStudent(c *gin.Context) {
	if err := h.assignment.Unassign(c.Request.Context(), c.Param("studentId"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	"github.com/campus-transit/shuttle-ops-api/internal/service"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
	"github.com/campus-transit/shuttle-ops-api/pkg/response"
)

// BookingHandler exposes seat booking endpoints.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create books a seat. Students always book for themselves; operators may
// book on a student's behalf.
func (h *BookingHandler) Create(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	identity := identityFromContext(c)
	if identity.Role == models.RoleStudent {
		req.StudentID = identity.UserID
	}

	booking, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// List returns bookings scoped to the caller: students see their own,
// operators may filter by student and/or trip.
func (h *BookingHandler) List(c *gin.Context) {
	identity := identityFromContext(c)
	studentID := c.Query("studentId")
	if identity.Role == models.RoleStudent {
		studentID = identity.UserID
	}

	bookings, err := h.bookings.List(c.Request.Context(), studentID, c.Query("tripId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.bookings.Cancel(c.Request.Context(), identityFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking)
}

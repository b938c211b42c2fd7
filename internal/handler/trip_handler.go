package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-transit/shuttle-ops-api/internal/service"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
	"github.com/campus-transit/shuttle-ops-api/pkg/response"
)

// TripHandler exposes trip scheduling endpoints. Reads are served enriched
// through the analytics service so every consumer sees the joined view.
type TripHandler struct {
	trips     *service.TripService
	analytics *service.AnalyticsService
}

// NewTripHandler constructs TripHandler.
func NewTripHandler(trips *service.TripService, analytics *service.AnalyticsService) *TripHandler {
	return &TripHandler{trips: trips, analytics: analytics}
}

func (h *TripHandler) Create(c *gin.Context) {
	var req service.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	trip, err := h.trips.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trip)
}

// List returns trips filtered by status, bus, route and/or date. Statuses
// are lifecycle-normalized before the filter applies.
func (h *TripHandler) List(c *gin.Context) {
	trips, err := h.trips.List(c.Request.Context(), c.Query("status"), c.Query("busId"), c.Query("routeId"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trips)
}

// Get returns one trip with route/bus/crew summaries and rollups attached.
func (h *TripHandler) Get(c *gin.Context) {
	detail, err := h.analytics.TripDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

func (h *TripHandler) Update(c *gin.Context) {
	var req service.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	trip, err := h.trips.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trip)
}

// Cancel performs the operator-driven terminal transition.
func (h *TripHandler) Cancel(c *gin.Context) {
	trip, err := h.trips.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trip)
}

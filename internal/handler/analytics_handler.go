package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-transit/shuttle-ops-api/internal/service"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
	"github.com/campus-transit/shuttle-ops-api/pkg/export"
	"github.com/campus-transit/shuttle-ops-api/pkg/response"
)

// AnalyticsHandler exposes the derived report endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// Trips returns every trip enriched with joins and rollups.
func (h *AnalyticsHandler) Trips(c *gin.Context) {
	details, err := h.analytics.TripDetails(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details)
}

// Fleet returns per-bus performance metrics.
func (h *AnalyticsHandler) Fleet(c *gin.Context) {
	perfs, err := h.analytics.FleetPerformance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, perfs)
}

// Routes returns per-route utilization.
func (h *AnalyticsHandler) Routes(c *gin.Context) {
	utils, err := h.analytics.RouteUtilization(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, utils)
}

// Revenue returns the rolling six-month revenue trend, oldest first.
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	buckets, err := h.analytics.MonthlyRevenue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buckets)
}

// Student returns one student's booking and payment statistics.
func (h *AnalyticsHandler) Student(c *gin.Context) {
	stats, err := h.analytics.StudentStatistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// ExportFleet streams the fleet performance report as CSV or PDF.
func (h *AnalyticsHandler) ExportFleet(c *gin.Context) {
	data, err := h.analytics.FleetReportDataset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, data, "Fleet Performance", "fleet-performance")
}

// ExportRoutes streams the route utilization report as CSV or PDF.
func (h *AnalyticsHandler) ExportRoutes(c *gin.Context) {
	data, err := h.analytics.RouteReportDataset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, data, "Route Utilization", "route-utilization")
}

func (h *AnalyticsHandler) render(c *gin.Context, data export.Dataset, title, slug string) {
	filename := fmt.Sprintf("%s-%s", slug, time.Now().Format("2006-01-02"))

	switch c.DefaultQuery("format", "csv") {
	case "pdf":
		raw, err := h.pdf.Render(data, title)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", raw)
	case "csv":
		raw, err := h.csv.Render(data)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", raw)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported format"))
	}
}

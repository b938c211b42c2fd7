package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-transit/shuttle-ops-api/internal/middleware"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
)

// Handlers bundles every API handler for route registration.
type Handlers struct {
	Users         *UserHandler
	Buses         *BusHandler
	Routes        *RouteHandler
	Trips         *TripHandler
	Bookings      *BookingHandler
	Payments      *PaymentHandler
	Attendance    *AttendanceHandler
	Analytics     *AnalyticsHandler
	Notifications *NotificationHandler
	Announcements *AnnouncementHandler
}

const (
	roleStudent = string(models.RoleStudent)
	roleDriver  = string(models.RoleDriver)
	roleSup     = string(models.RoleSupervisor)
	roleManager = string(models.RoleMovementManager)
	roleAdmin   = string(models.RoleAdmin)
)

// RegisterRoutes wires the API surface under the given prefix. Every route
// requires a gateway-resolved identity; role restrictions sit per group.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	api := r.Group(prefix)
	api.Use(middleware.Identity())

	operators := middleware.RequireRoles(roleAdmin, roleManager)

	users := api.Group("/users")
	{
		users.POST("", middleware.RequireRoles(roleAdmin), h.Users.Create)
		users.GET("", operators, h.Users.List)
		users.GET("/:id", middleware.RequireRoles(roleAdmin, roleManager, roleSup, "self"), h.Users.Get)
		users.PUT("/:id", middleware.RequireRoles(roleAdmin, "self"), h.Users.Update)
	}

	buses := api.Group("/buses")
	{
		buses.POST("", operators, h.Buses.Create)
		buses.GET("", h.Buses.List)
		buses.GET("/:id", h.Buses.Get)
		buses.PUT("/:id", operators, h.Buses.Update)
		buses.DELETE("/:id", middleware.RequireRoles(roleAdmin), h.Buses.Delete)
		buses.POST("/:id/students", middleware.RequireRoles(roleAdmin, roleManager, roleSup), h.Buses.AssignStudent)
		buses.DELETE("/:id/students/:studentId", middleware.RequireRoles(roleAdmin, roleManager, roleSup), h.Buses.UnassignStudent)
	}

	routes := api.Group("/routes")
	{
		routes.POST("", operators, h.Routes.Create)
		routes.GET("", h.Routes.List)
		routes.GET("/:id", h.Routes.Get)
		routes.PUT("/:id", operators, h.Routes.Update)
	}

	trips := api.Group("/trips")
	{
		trips.POST("", operators, h.Trips.Create)
		trips.GET("", h.Trips.List)
		trips.GET("/:id", h.Trips.Get)
		trips.PUT("/:id", operators, h.Trips.Update)
		trips.POST("/:id/cancel", middleware.RequireRoles(roleAdmin, roleManager, roleSup), h.Trips.Cancel)
	}

	bookings := api.Group("/bookings")
	{
		bookings.POST("", middleware.RequireRoles(roleStudent, roleAdmin, roleManager), h.Bookings.Create)
		bookings.GET("", h.Bookings.List)
		bookings.POST("/:id/cancel", h.Bookings.Cancel)
	}

	payments := api.Group("/payments")
	{
		payments.POST("", middleware.RequireRoles(roleStudent, roleAdmin, roleManager, roleSup), h.Payments.Create)
		payments.GET("", h.Payments.List)
		payments.POST("/:id/settle", middleware.RequireRoles(roleSup), h.Payments.Settle)
		payments.DELETE("/:id", middleware.RequireRoles(roleAdmin), h.Payments.Delete)
	}

	attendance := api.Group("/attendance")
	{
		attendance.POST("", middleware.RequireRoles(roleDriver, roleSup, roleAdmin), h.Attendance.Submit)
		attendance.GET("", middleware.RequireRoles(roleDriver, roleSup, roleManager, roleAdmin), h.Attendance.List)
	}

	analytics := api.Group("/analytics", operators)
	{
		analytics.GET("/trips", h.Analytics.Trips)
		analytics.GET("/fleet", h.Analytics.Fleet)
		analytics.GET("/routes", h.Analytics.Routes)
		analytics.GET("/revenue", h.Analytics.Revenue)
		analytics.GET("/students/:id", h.Analytics.Student)
	}

	reports := api.Group("/reports", operators)
	{
		reports.GET("/fleet", h.Analytics.ExportFleet)
		reports.GET("/routes", h.Analytics.ExportRoutes)
	}

	notifications := api.Group("/notifications")
	{
		notifications.POST("/broadcast", middleware.RequireRoles(roleSup, roleManager, roleAdmin), h.Notifications.Broadcast)
		notifications.GET("", h.Notifications.List)
		notifications.POST("/:id/read", h.Notifications.MarkRead)
		notifications.DELETE("/:id", h.Notifications.Delete)
	}

	announcements := api.Group("/announcements")
	{
		announcements.POST("", operators, h.Announcements.Create)
		announcements.GET("", h.Announcements.List)
		announcements.DELETE("/:id", middleware.RequireRoles(roleAdmin), h.Announcements.Delete)
	}
}

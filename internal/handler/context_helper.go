package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-transit/shuttle-ops-api/internal/middleware"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
)

func identityFromContext(c *gin.Context) models.Identity {
	identity, _ := middleware.IdentityFrom(c)
	return identity
}

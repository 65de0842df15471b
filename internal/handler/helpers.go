package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-health/clinic-booking-api/internal/middleware"
	"github.com/campus-health/clinic-booking-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	if v, exists := c.Get(middleware.ContextUserKey); exists {
		if claims, ok := v.(*models.JWTClaims); ok {
			return claims
		}
	}
	return nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

package handlers

import (
	"context"
	"net/http"

	"greek-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

// Bootstrap resolves the caller's identity and returns their standing.
// A missing X-User-ID header mints a new anonymous identity; the client
// stores the returned user_id for every later call.
func (h *UserHandler) Bootstrap(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	data, err := h.Service.Bootstrap(context.Background(), userID)
	if err != nil {
		writeServiceError(c, err, "Failed to load user data")
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetLevel returns the user's level standing, its mechanics, and every
// promotion so far.
func (h *UserHandler) GetLevel(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID is required",
		})
		return
	}

	data, err := h.Service.Level(context.Background(), userID)
	if err != nil {
		writeServiceError(c, err, "Failed to load level data")
		return
	}

	c.JSON(http.StatusOK, data)
}

// HealthCheck reports service liveness.
func (h *UserHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "greek-quiz-service",
		"status":  "healthy",
	})
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/messaging"
	"marketplace-service/internal/middleware"
	"marketplace-service/internal/models"
)

// UserLookup resolves users for response enrichment.
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (models.User, error)
}

func currentUser(c *gin.Context) models.User {
	user, _ := middleware.CurrentUser(c)
	return user
}

func internalError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

func messagingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, messaging.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, messaging.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, messaging.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		internalError(c, "internal server error", err)
	}
}

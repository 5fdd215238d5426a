package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

// ProfileStore reads and updates user profiles.
type ProfileStore interface {
	UserLookup
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
}

type UserHandler struct {
	users ProfileStore
}

func NewUserHandler(users ProfileStore) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns the public profile of any user.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("user_id"))
	if errors.Is(err, repositories.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to load user", err)
		return
	}
	c.JSON(http.StatusOK, user.Profile())
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	err := h.users.UpdateProfile(c.Request.Context(), currentUser(c).ID, update)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
	case errors.Is(err, repositories.ErrPhoneTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number already registered"})
	case errors.Is(err, repositories.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		internalError(c, "failed to update profile", err)
	}
}

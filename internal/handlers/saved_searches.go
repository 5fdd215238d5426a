package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

const savedSearchPageSize = 20

type SavedSearchHandler struct {
	searches repositories.SavedSearchRepository
	now      func() time.Time
}

func NewSavedSearchHandler(searches repositories.SavedSearchRepository) *SavedSearchHandler {
	return &SavedSearchHandler{searches: searches, now: time.Now}
}

type saveSearchRequest struct {
	Name        string         `json:"name" binding:"required"`
	SearchQuery models.JSONMap `json:"search_query"`
}

func (h *SavedSearchHandler) SaveSearch(c *gin.Context) {
	var req saveSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.SearchQuery == nil {
		req.SearchQuery = models.JSONMap{}
	}

	search := models.SavedSearch{
		ID:          uuid.NewString(),
		UserID:      currentUser(c).ID,
		Name:        req.Name,
		SearchQuery: req.SearchQuery,
		IsActive:    true,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.searches.CreateSavedSearch(c.Request.Context(), search); err != nil {
		internalError(c, "failed to save search", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": search.ID, "message": "Search saved successfully"})
}

func (h *SavedSearchHandler) ListSearches(c *gin.Context) {
	searches, err := h.searches.ListActive(c.Request.Context(), currentUser(c).ID, savedSearchPageSize)
	if err != nil {
		internalError(c, "failed to load saved searches", err)
		return
	}
	if searches == nil {
		searches = []models.SavedSearch{}
	}
	c.JSON(http.StatusOK, searches)
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

type FavoriteHandler struct {
	favorites repositories.FavoriteRepository
	listings  *ListingHandler
	now       func() time.Time
}

// NewFavoriteHandler reuses the listing handler's store and seller enrichment.
func NewFavoriteHandler(favorites repositories.FavoriteRepository, listings *ListingHandler) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, listings: listings, now: time.Now}
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	ctx := c.Request.Context()
	listingID := c.Param("listing_id")

	if _, err := h.listings.listings.GetListing(ctx, listingID); errors.Is(err, repositories.ErrListingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	} else if err != nil {
		internalError(c, "failed to add favorite", err)
		return
	}

	err := h.favorites.AddFavorite(ctx, models.Favorite{
		ID:        uuid.NewString(),
		UserID:    currentUser(c).ID,
		ListingID: listingID,
		CreatedAt: h.now().UTC(),
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Added to favorites"})
	case errors.Is(err, repositories.ErrFavoriteExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already in favorites"})
	default:
		internalError(c, "failed to add favorite", err)
	}
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	err := h.favorites.RemoveFavorite(c.Request.Context(), currentUser(c).ID, c.Param("listing_id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
	case errors.Is(err, repositories.ErrFavoriteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not in favorites"})
	default:
		internalError(c, "failed to remove favorite", err)
	}
}

// ListFavorites returns the caller's favorited listings, newest first.
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	ctx := c.Request.Context()
	ids, err := h.favorites.ListingIDs(ctx, currentUser(c).ID)
	if err != nil {
		internalError(c, "failed to load favorites", err)
		return
	}
	listings, err := h.listings.listings.ListByIDs(ctx, ids)
	if err != nil {
		internalError(c, "failed to load favorites", err)
		return
	}
	resp, err := h.listings.enrich(ctx, listings, func(string) bool { return true })
	if err != nil {
		internalError(c, "failed to load favorites", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

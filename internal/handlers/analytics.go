package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/analytics"
	"marketplace-service/internal/models"
)

// SellerListings lists every listing a seller owns.
type SellerListings interface {
	ListBySeller(ctx context.Context, sellerID string) ([]models.Listing, error)
}

type AnalyticsHandler struct {
	listings SellerListings
	now      func() time.Time
}

func NewAnalyticsHandler(listings SellerListings) *AnalyticsHandler {
	return &AnalyticsHandler{listings: listings, now: time.Now}
}

// SellerReport returns the caller's listing performance dashboard.
func (h *AnalyticsHandler) SellerReport(c *gin.Context) {
	listings, err := h.listings.ListBySeller(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		internalError(c, "failed to load analytics", err)
		return
	}
	c.JSON(http.StatusOK, analytics.Compute(listings, h.now()))
}

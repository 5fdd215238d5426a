package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
	"marketplace-service/internal/telemetry"
)

const reviewPageSize = 50

// RatingWriter stores a user's recomputed review aggregate.
type RatingWriter interface {
	UpdateRating(ctx context.Context, userID string, rating float64, totalReviews int) error
}

type ReviewHandler struct {
	reviews  repositories.ReviewRepository
	listings repositories.ListingRepository
	users    UserLookup
	ratings  RatingWriter
	audit    *telemetry.AuditEmitter
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewReviewHandler(reviews repositories.ReviewRepository, listings repositories.ListingRepository, users UserLookup, ratings RatingWriter, audit *telemetry.AuditEmitter, logger logrus.FieldLogger) *ReviewHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReviewHandler{reviews: reviews, listings: listings, users: users, ratings: ratings, audit: audit, log: logger, now: time.Now}
}

type createReviewRequest struct {
	ReviewedUserID string `json:"reviewed_user_id" binding:"required"`
	ListingID      string `json:"listing_id" binding:"required"`
	Rating         int    `json:"rating" binding:"required,min=1,max=5"`
	Comment        string `json:"comment"`
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	ctx := c.Request.Context()
	reviewer := currentUser(c)

	if _, err := h.listings.GetListing(ctx, req.ListingID); errors.Is(err, repositories.ErrListingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	} else if err != nil {
		internalError(c, "failed to create review", err)
		return
	}

	exists, err := h.reviews.Exists(ctx, reviewer.ID, req.ReviewedUserID, req.ListingID)
	if err != nil {
		internalError(c, "failed to create review", err)
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this seller for this listing"})
		return
	}

	review := models.Review{
		ID:             uuid.NewString(),
		ReviewerID:     reviewer.ID,
		ReviewedUserID: req.ReviewedUserID,
		ListingID:      req.ListingID,
		Rating:         req.Rating,
		Comment:        req.Comment,
		CreatedAt:      h.now().UTC(),
	}
	if err := h.reviews.CreateReview(ctx, review); errors.Is(err, repositories.ErrReviewExists) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this seller for this listing"})
		return
	} else if err != nil {
		internalError(c, "failed to create review", err)
		return
	}

	h.refreshRating(ctx, req.ReviewedUserID)
	emitAudit(c, h.audit, telemetry.LevelInfo, telemetry.ActionReviewCreate, review.ID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Review created successfully"})
}

// refreshRating recomputes the reviewed user's aggregate. The review is already
// stored, so failures are only logged.
func (h *ReviewHandler) refreshRating(ctx context.Context, userID string) {
	log := h.log.WithField("user_id", userID)
	avg, total, err := h.reviews.RatingSummary(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("failed to summarize reviews")
		return
	}
	if err := h.ratings.UpdateRating(ctx, userID, avg, total); err != nil {
		log.WithError(err).Warn("failed to update user rating")
	}
}

// ListReviews returns the newest reviews a user received.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	ctx := c.Request.Context()
	reviews, err := h.reviews.ListForUser(ctx, c.Param("user_id"), reviewPageSize)
	if err != nil {
		internalError(c, "failed to load reviews", err)
		return
	}

	out := make([]models.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		reviewer, err := h.users.GetUser(ctx, r.ReviewerID)
		if errors.Is(err, repositories.ErrUserNotFound) {
			continue
		}
		if err != nil {
			internalError(c, "failed to load reviews", err)
			return
		}
		out = append(out, models.ReviewResponse{
			ID:                     r.ID,
			ReviewerName:           reviewer.Name,
			ReviewerProfilePicture: reviewer.ProfilePicture,
			Rating:                 r.Rating,
			Comment:                r.Comment,
			CreatedAt:              r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

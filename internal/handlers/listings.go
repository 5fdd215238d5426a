package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"marketplace-service/internal/middleware"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
	"marketplace-service/internal/storage"
	"marketplace-service/internal/telemetry"
)

const (
	listingMediaPrefix = "listings"
	maxListingForm     = 64 << 20
)

// ListingHandler serves listing creation and browsing.
type ListingHandler struct {
	listings  repositories.ListingRepository
	favorites repositories.FavoriteRepository
	users     UserLookup
	media     storage.MediaStore
	audit     *telemetry.AuditEmitter
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewListingHandler(listings repositories.ListingRepository, favorites repositories.FavoriteRepository, users UserLookup, media storage.MediaStore, audit *telemetry.AuditEmitter, logger logrus.FieldLogger) *ListingHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ListingHandler{listings: listings, favorites: favorites, users: users, media: media, audit: audit, log: logger, now: time.Now}
}

type createListingForm struct {
	Brand          string             `form:"brand" binding:"required"`
	Model          string             `form:"model" binding:"required"`
	Storage        string             `form:"storage" binding:"required"`
	Condition      string             `form:"condition" binding:"required"`
	Price          int64              `form:"price" binding:"required"`
	PricingType    models.PricingType `form:"pricing_type"`
	Description    string             `form:"description" binding:"required"`
	Specifications string             `form:"specifications"`
	WarrantyInfo   *string            `form:"warranty_info"`
	LocationLat    *float64           `form:"location_lat"`
	LocationLng    *float64           `form:"location_lng"`
}

// CreateListing stores a new listing owned by the caller. Uploaded images and
// the optional video go to the media store before the row is written.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxListingForm)

	var form createListingForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	specs := models.JSONMap{}
	if form.Specifications != "" {
		if err := json.Unmarshal([]byte(form.Specifications), &specs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "specifications must be a JSON object"})
			return
		}
	}
	if form.PricingType == "" {
		form.PricingType = models.PricingFixed
	}

	ctx := c.Request.Context()
	images := pq.StringArray{}
	var video *string
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		for _, fh := range mf.File["images"] {
			url, err := h.upload(ctx, fh)
			if err != nil {
				internalError(c, "failed to upload media", err)
				return
			}
			images = append(images, url)
		}
		if files := mf.File["video"]; len(files) > 0 {
			url, err := h.upload(ctx, files[0])
			if err != nil {
				internalError(c, "failed to upload media", err)
				return
			}
			video = &url
		}
	}

	now := h.now().UTC()
	listing := models.Listing{
		ID:             uuid.NewString(),
		SellerID:       currentUser(c).ID,
		Brand:          form.Brand,
		Model:          form.Model,
		Storage:        form.Storage,
		Condition:      form.Condition,
		Price:          form.Price,
		PricingType:    form.PricingType,
		Description:    form.Description,
		Specifications: specs,
		WarrantyInfo:   form.WarrantyInfo,
		Images:         images,
		VideoURL:       video,
		Status:         models.ListingActive,
		LocationLat:    form.LocationLat,
		LocationLng:    form.LocationLng,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(models.ListingTTL),
	}
	if err := h.listings.CreateListing(ctx, listing); err != nil {
		internalError(c, "failed to create listing", err)
		return
	}

	emitAudit(c, h.audit, telemetry.LevelInfo, telemetry.ActionListingCreate, listing.ID, nil)
	c.JSON(http.StatusOK, gin.H{"id": listing.ID, "message": "Listing created successfully"})
}

func (h *ListingHandler) upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	out, err := h.media.Upload(ctx, storage.UploadInput{
		Reader:      f,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Filename:    fh.Filename,
		Prefix:      listingMediaPrefix,
	})
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

// ListListings searches active listings. Every listing returned counts as viewed.
func (h *ListingHandler) ListListings(c *gin.Context) {
	filter, err := parseListingFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	listings, err := h.listings.SearchListings(ctx, filter)
	if err != nil {
		internalError(c, "failed to load listings", err)
		return
	}

	favorited := map[string]bool{}
	if userID := c.GetString(middleware.UserIDKey); userID != "" {
		ids, err := h.favorites.ListingIDs(ctx, userID)
		if err != nil {
			internalError(c, "failed to load favorites", err)
			return
		}
		for _, id := range ids {
			favorited[id] = true
		}
	}

	resp, err := h.enrich(ctx, listings, func(id string) bool { return favorited[id] })
	if err != nil {
		internalError(c, "failed to load listings", err)
		return
	}

	if len(listings) > 0 {
		ids := make([]string, 0, len(listings))
		for _, l := range listings {
			ids = append(ids, l.ID)
		}
		if err := h.listings.IncrementViews(ctx, ids); err != nil {
			h.log.WithError(err).WithField("count", len(ids)).Warn("failed to record listing views")
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) GetListing(c *gin.Context) {
	ctx := c.Request.Context()
	listing, err := h.listings.GetListing(ctx, c.Param("listing_id"))
	if errors.Is(err, repositories.ErrListingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to load listing", err)
		return
	}

	seller, err := h.users.GetUser(ctx, listing.SellerID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Seller not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to load listing", err)
		return
	}
	c.JSON(http.StatusOK, models.NewListingResponse(listing, seller, false))
}

// enrich joins listings with their sellers. Listings whose seller no longer
// exists are skipped.
func (h *ListingHandler) enrich(ctx context.Context, listings []models.Listing, favorited func(string) bool) ([]models.ListingResponse, error) {
	sellers := map[string]*models.User{}
	out := make([]models.ListingResponse, 0, len(listings))
	for _, l := range listings {
		seller, seen := sellers[l.SellerID]
		if !seen {
			u, err := h.users.GetUser(ctx, l.SellerID)
			switch {
			case err == nil:
				seller = &u
			case errors.Is(err, repositories.ErrUserNotFound):
			default:
				return nil, err
			}
			sellers[l.SellerID] = seller
		}
		if seller == nil {
			continue
		}
		out = append(out, models.NewListingResponse(l, *seller, favorited(l.ID)))
	}
	return out, nil
}

func parseListingFilter(c *gin.Context) (models.ListingFilter, error) {
	filter := models.ListingFilter{
		Brand:     c.Query("brand"),
		City:      c.Query("city"),
		Condition: c.Query("condition"),
		Search:    c.Query("search"),
		SortBy:    models.ListingSort(c.DefaultQuery("sort_by", string(models.SortRecent))),
		Page:      1,
		Limit:     repositories.DefaultListingLimit,
	}

	var err error
	if filter.MinPrice, err = optionalInt64(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = optionalInt64(c, "max_price"); err != nil {
		return filter, err
	}
	if raw := c.Query("page"); raw != "" {
		if filter.Page, err = strconv.Atoi(raw); err != nil || filter.Page < 1 {
			return filter, errors.New("page must be a positive integer")
		}
		if filter.Page > repositories.MaxListingPage {
			return filter, fmt.Errorf("page must not exceed %d", repositories.MaxListingPage)
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if filter.Limit, err = strconv.Atoi(raw); err != nil || filter.Limit < 1 {
			return filter, errors.New("limit must be a positive integer")
		}
	}
	return filter, nil
}

func optionalInt64(c *gin.Context, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}

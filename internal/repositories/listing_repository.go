package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"marketplace-service/internal/models"
)

var ErrListingNotFound = errors.New("listing not found")

const (
	DefaultListingLimit = 20
	MaxListingLimit     = 100
	// MaxListingPage keeps (page-1)*limit well inside int range.
	MaxListingPage      = 10000
)

// ListingRepository abstracts listing persistence.
type ListingRepository interface {
	CreateListing(ctx context.Context, listing models.Listing) error
	GetListing(ctx context.Context, listingID string) (models.Listing, error)
	SearchListings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Listing, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Listing, error)
	IncrementViews(ctx context.Context, ids []string) error
	IncrementInquiries(ctx context.Context, listingID string) error
}

// ListingRepo is a sqlx implementation of ListingRepository.
type ListingRepo struct {
	db *sqlx.DB
}

// NewListingRepo constructs a ListingRepo.
func NewListingRepo(db *sqlx.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

const listingColumns = `l.id, l.seller_id, l.brand, l.model, l.storage, l.condition, l.price, l.pricing_type, l.description,
        l.specifications, l.warranty_info, l.images, l.video_url, l.status, l.views_count, l.inquiries_count, l.is_featured,
        l.location_lat, l.location_lng, l.created_at, l.updated_at, l.expires_at`

func (r *ListingRepo) CreateListing(ctx context.Context, listing models.Listing) error {
	if listing.Images == nil {
		listing.Images = pq.StringArray{}
	}
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO listings (id, seller_id, brand, model, storage, condition, price,
        pricing_type, description, specifications, warranty_info, images, video_url, status, views_count, inquiries_count,
        is_featured, location_lat, location_lng, created_at, updated_at, expires_at)
        VALUES (:id, :seller_id, :brand, :model, :storage, :condition, :price, :pricing_type, :description, :specifications,
        :warranty_info, :images, :video_url, :status, :views_count, :inquiries_count, :is_featured, :location_lat,
        :location_lng, :created_at, :updated_at, :expires_at)`, listing)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetListing fetches a listing by id regardless of status.
func (r *ListingRepo) GetListing(ctx context.Context, listingID string) (models.Listing, error) {
	var listing models.Listing
	err := r.db.GetContext(ctx, &listing, `SELECT `+listingColumns+` FROM listings l WHERE l.id=$1`, listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Listing{}, ErrListingNotFound
	}
	return listing, err
}

// SearchListings returns one page of active listings matching filter.
func (r *ListingRepo) SearchListings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	query, args := buildListingSearch(filter)
	var listings []models.Listing
	err := r.db.SelectContext(ctx, &listings, query, args...)
	return listings, err
}

func buildListingSearch(filter models.ListingFilter) (string, []any) {
	where := []string{"l.status = 'active'"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	from := "listings l"
	if filter.City != "" {
		from = "listings l JOIN users u ON u.id = l.seller_id"
		where = append(where, "u.city = "+arg(filter.City))
	}
	if filter.Brand != "" {
		where = append(where, "l.brand = "+arg(filter.Brand))
	}
	if filter.Condition != "" {
		where = append(where, "l.condition = "+arg(filter.Condition))
	}
	if filter.MinPrice != nil {
		where = append(where, "l.price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		where = append(where, "l.price <= "+arg(*filter.MaxPrice))
	}
	if filter.Search != "" {
		p := arg("%" + escapeLike(filter.Search) + "%")
		where = append(where, fmt.Sprintf("(l.model ILIKE %[1]s OR l.brand ILIKE %[1]s OR l.description ILIKE %[1]s)", p))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListingLimit
	}
	if limit > MaxListingLimit {
		limit = MaxListingLimit
	}
	page := filter.Page
	if page > MaxListingPage {
		page = MaxListingPage
	}
	if page < 1 {
		page = 1
	}

	query := `SELECT ` + listingColumns + ` FROM ` + from +
		` WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY ` + listingOrder(filter.SortBy) +
		` LIMIT ` + arg(limit) + ` OFFSET ` + arg((page-1)*limit)
	return query, args
}

func listingOrder(sort models.ListingSort) string {
	switch sort {
	case models.SortPriceLow:
		return "l.price ASC, l.created_at DESC"
	case models.SortPriceHigh:
		return "l.price DESC, l.created_at DESC"
	case models.SortPopular:
		return "l.views_count DESC, l.created_at DESC"
	default:
		return "l.created_at DESC"
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *ListingRepo) ListBySeller(ctx context.Context, sellerID string) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.SelectContext(ctx, &listings, `SELECT `+listingColumns+` FROM listings l WHERE l.seller_id=$1 ORDER BY l.created_at DESC`, sellerID)
	return listings, err
}

func (r *ListingRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Listing, error) {
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}
	var listings []models.Listing
	err := r.db.SelectContext(ctx, &listings, `SELECT `+listingColumns+` FROM listings l WHERE l.id = ANY($1) ORDER BY l.created_at DESC`, pq.StringArray(ids))
	return listings, err
}

// IncrementViews bumps views_count for every listing in ids.
func (r *ListingRepo) IncrementViews(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `UPDATE listings SET views_count = views_count + 1 WHERE id = ANY($1)`, pq.StringArray(ids))
	return err
}

// IncrementInquiries records a new buyer conversation about the listing.
func (r *ListingRepo) IncrementInquiries(ctx context.Context, listingID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET inquiries_count = inquiries_count + 1 WHERE id=$1`, listingID)
	return expectRow(res, err, ErrListingNotFound)
}

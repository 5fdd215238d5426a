package models

import (
	"time"

	"github.com/lib/pq"
)

type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingSold      ListingStatus = "sold"
	ListingExpired   ListingStatus = "expired"
	ListingDraft     ListingStatus = "draft"
	ListingSuspended ListingStatus = "suspended"
)

type PricingType string

const (
	PricingFixed      PricingType = "fixed"
	PricingNegotiable PricingType = "negotiable"
)

// ListingTTL is how long a new listing stays live.
const ListingTTL = 30 * 24 * time.Hour

// Listing is a used-phone classified ad.
type Listing struct {
	ID             string         `db:"id" json:"id"`
	SellerID       string         `db:"seller_id" json:"seller_id"`
	Brand          string         `db:"brand" json:"brand"`
	Model          string         `db:"model" json:"model"`
	Storage        string         `db:"storage" json:"storage"`
	Condition      string         `db:"condition" json:"condition"`
	Price          int64          `db:"price" json:"price"`
	PricingType    PricingType    `db:"pricing_type" json:"pricing_type"`
	Description    string         `db:"description" json:"description"`
	Specifications JSONMap        `db:"specifications" json:"specifications"`
	WarrantyInfo   *string        `db:"warranty_info" json:"warranty_info"`
	Images         pq.StringArray `db:"images" json:"images"`
	VideoURL       *string        `db:"video_url" json:"video_url"`
	Status         ListingStatus  `db:"status" json:"status"`
	ViewsCount     int            `db:"views_count" json:"views_count"`
	InquiriesCount int            `db:"inquiries_count" json:"inquiries_count"`
	IsFeatured     bool           `db:"is_featured" json:"is_featured"`
	LocationLat    *float64       `db:"location_lat" json:"location_lat"`
	LocationLng    *float64       `db:"location_lng" json:"location_lng"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
	ExpiresAt      time.Time      `db:"expires_at" json:"expires_at"`
}

// Title is the display title used in conversation and message views.
func (l Listing) Title() string {
	return l.Brand + " " + l.Model
}

// Thumbnail returns the first image, if any.
func (l Listing) Thumbnail() *string {
	if len(l.Images) == 0 {
		return nil
	}
	img := l.Images[0]
	return &img
}

// ListingResponse is a listing enriched with seller details.
type ListingResponse struct {
	Listing
	SellerName           string   `json:"seller_name"`
	SellerPhone          string   `json:"seller_phone"`
	SellerCity           string   `json:"seller_city"`
	SellerType           UserType `json:"seller_type"`
	SellerRating         float64  `json:"seller_rating"`
	SellerProfilePicture *string  `json:"seller_profile_picture"`
	ShopName             *string  `json:"shop_name"`
	IsFavorited          bool     `json:"is_favorited"`
}

// NewListingResponse joins a listing with its seller.
func NewListingResponse(l Listing, seller User, favorited bool) ListingResponse {
	return ListingResponse{
		Listing:              l,
		SellerName:           seller.Name,
		SellerPhone:          seller.Phone,
		SellerCity:           seller.City,
		SellerType:           seller.UserType,
		SellerRating:         seller.Rating,
		SellerProfilePicture: seller.ProfilePicture,
		ShopName:             seller.ShopName,
		IsFavorited:          favorited,
	}
}

// ListingSort enumerates supported listing orderings.
type ListingSort string

const (
	SortRecent    ListingSort = "recent"
	SortPriceLow  ListingSort = "price_low"
	SortPriceHigh ListingSort = "price_high"
	SortPopular   ListingSort = "popular"
)

// ListingFilter narrows a listing search. Zero values mean "no constraint".
type ListingFilter struct {
	Brand     string
	City      string
	Condition string
	MinPrice  *int64
	MaxPrice  *int64
	Search    string
	SortBy    ListingSort
	Page      int
	Limit     int
}

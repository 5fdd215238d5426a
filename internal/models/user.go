package models

import (
	"time"

	"github.com/lib/pq"
)

type UserType string

const (
	UserTypeIndividual UserType = "individual"
	UserTypeShop       UserType = "shop"
	UserTypeAdmin      UserType = "admin"
)

type LoginMethod string

const (
	LoginMethodEmail LoginMethod = "email"
	LoginMethodPhone LoginMethod = "phone"
)

// User is a marketplace account.
type User struct {
	ID                 string         `db:"id" json:"id"`
	Name               string         `db:"name" json:"name"`
	Email              string         `db:"email" json:"email"`
	Phone              string         `db:"phone" json:"phone"`
	PasswordHash       string         `db:"password_hash" json:"-"`
	UserType           UserType       `db:"user_type" json:"user_type"`
	LoginMethod        LoginMethod    `db:"login_method" json:"login_method"`
	City               string         `db:"city" json:"city"`
	Address            *string        `db:"address" json:"address"`
	ShopName           *string        `db:"shop_name" json:"shop_name"`
	IsActive           bool           `db:"is_active" json:"is_active"`
	IsVerified         bool           `db:"is_verified" json:"is_verified"`
	Rating             float64        `db:"rating" json:"rating"`
	TotalReviews       int            `db:"total_reviews" json:"total_reviews"`
	TotalSales         int            `db:"total_sales" json:"total_sales"`
	JoinedDate         time.Time      `db:"joined_date" json:"joined_date"`
	LastLogin          *time.Time     `db:"last_login" json:"last_login"`
	ProfilePicture     *string        `db:"profile_picture" json:"profile_picture"`
	IsPremium          bool           `db:"is_premium" json:"is_premium"`
	VerificationBadges pq.StringArray `db:"verification_badges" json:"verification_badges"`
}

// UserProfile is the public view of a user.
type UserProfile struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	UserType           UserType  `json:"user_type"`
	City               string    `json:"city"`
	Rating             float64   `json:"rating"`
	TotalReviews       int       `json:"total_reviews"`
	TotalSales         int       `json:"total_sales"`
	JoinedDate         time.Time `json:"joined_date"`
	ProfilePicture     *string   `json:"profile_picture"`
	IsVerified         bool      `json:"is_verified"`
	VerificationBadges []string  `json:"verification_badges"`
	ShopName           *string   `json:"shop_name"`
}

// Profile returns the public view of u.
func (u User) Profile() UserProfile {
	badges := []string(u.VerificationBadges)
	if badges == nil {
		badges = []string{}
	}
	return UserProfile{
		ID:                 u.ID,
		Name:               u.Name,
		UserType:           u.UserType,
		City:               u.City,
		Rating:             u.Rating,
		TotalReviews:       u.TotalReviews,
		TotalSales:         u.TotalSales,
		JoinedDate:         u.JoinedDate,
		ProfilePicture:     u.ProfilePicture,
		IsVerified:         u.IsVerified,
		VerificationBadges: badges,
		ShopName:           u.ShopName,
	}
}

// ProfileUpdate carries the user-editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	City           *string `json:"city"`
	Address        *string `json:"address"`
	ShopName       *string `json:"shop_name"`
	ProfilePicture *string `json:"profile_picture"`
}

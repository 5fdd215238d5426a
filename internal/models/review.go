package models

import "time"

type Review struct {
	ID             string    `db:"id" json:"id"`
	ReviewerID     string    `db:"reviewer_id" json:"reviewer_id"`
	ReviewedUserID string    `db:"reviewed_user_id" json:"reviewed_user_id"`
	ListingID      string    `db:"listing_id" json:"listing_id"`
	Rating         int       `db:"rating" json:"rating"`
	Comment        string    `db:"comment" json:"comment"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type ReviewResponse struct {
	ID                     string    `json:"id"`
	ReviewerName           string    `json:"reviewer_name"`
	ReviewerProfilePicture *string   `json:"reviewer_profile_picture"`
	Rating                 int       `json:"rating"`
	Comment                string    `json:"comment"`
	CreatedAt              time.Time `json:"created_at"`
}

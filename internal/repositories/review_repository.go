package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"marketplace-service/internal/models"
)

var ErrReviewExists = errors.New("review already exists")

// ReviewRepository abstracts seller review persistence.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review models.Review) error
	Exists(ctx context.Context, reviewerID, reviewedUserID, listingID string) (bool, error)
	ListForUser(ctx context.Context, reviewedUserID string, limit int) ([]models.Review, error)
	RatingSummary(ctx context.Context, reviewedUserID string) (float64, int, error)
}

type ReviewRepo struct {
	db *sqlx.DB
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func (r *ReviewRepo) CreateReview(ctx context.Context, review models.Review) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO reviews (id, reviewer_id, reviewed_user_id, listing_id, rating, comment, created_at)
        VALUES (:id, :reviewer_id, :reviewed_user_id, :listing_id, :rating, :comment, :created_at)`, review)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == errUniqueViolated {
		return ErrReviewExists
	}
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *ReviewRepo) Exists(ctx context.Context, reviewerID, reviewedUserID, listingID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM reviews WHERE reviewer_id=$1 AND reviewed_user_id=$2 AND listing_id=$3)`,
		reviewerID, reviewedUserID, listingID)
	return exists, err
}

// ListForUser returns the newest reviews received by a user.
func (r *ReviewRepo) ListForUser(ctx context.Context, reviewedUserID string, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `SELECT id, reviewer_id, reviewed_user_id, listing_id, rating, comment, created_at
        FROM reviews WHERE reviewed_user_id=$1 ORDER BY created_at DESC LIMIT $2`, reviewedUserID, limit)
	return reviews, err
}

// RatingSummary returns the average rating and review count for a user.
func (r *ReviewRepo) RatingSummary(ctx context.Context, reviewedUserID string) (float64, int, error) {
	var row struct {
		Avg   sql.NullFloat64 `db:"avg"`
		Count int             `db:"count"`
	}
	err := r.db.GetContext(ctx, &row, `SELECT AVG(rating)::float8 AS avg, COUNT(*) AS count FROM reviews WHERE reviewed_user_id=$1`, reviewedUserID)
	if err != nil {
		return 0, 0, err
	}
	return row.Avg.Float64, row.Count, nil
}

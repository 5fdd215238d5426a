package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"marketplace-service/internal/models"
)

var (
	ErrFavoriteExists   = errors.New("already in favorites")
	ErrFavoriteNotFound = errors.New("not in favorites")
)

// FavoriteRepository abstracts per-user favorite listings.
type FavoriteRepository interface {
	AddFavorite(ctx context.Context, fav models.Favorite) error
	RemoveFavorite(ctx context.Context, userID, listingID string) error
	ListingIDs(ctx context.Context, userID string) ([]string, error)
}

type FavoriteRepo struct {
	db *sqlx.DB
}

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

func (r *FavoriteRepo) AddFavorite(ctx context.Context, fav models.Favorite) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO favorites (id, user_id, listing_id, created_at)
        VALUES (:id, :user_id, :listing_id, :created_at)`, fav)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == errUniqueViolated {
		return ErrFavoriteExists
	}
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepo) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id=$1 AND listing_id=$2`, userID, listingID)
	return expectRow(res, err, ErrFavoriteNotFound)
}

// ListingIDs returns the ids of every listing the user has favorited.
func (r *FavoriteRepo) ListingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `SELECT listing_id FROM favorites WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	return ids, err
}

package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/models"
)

type SavedSearchRepository interface {
	CreateSavedSearch(ctx context.Context, search models.SavedSearch) error
	ListActive(ctx context.Context, userID string, limit int) ([]models.SavedSearch, error)
}

type SavedSearchRepo struct {
	db *sqlx.DB
}

func NewSavedSearchRepo(db *sqlx.DB) *SavedSearchRepo {
	return &SavedSearchRepo{db: db}
}

func (r *SavedSearchRepo) CreateSavedSearch(ctx context.Context, search models.SavedSearch) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO saved_searches (id, user_id, name, search_query, is_active, created_at)
        VALUES (:id, :user_id, :name, :search_query, :is_active, :created_at)`, search)
	if err != nil {
		return fmt.Errorf("insert saved search: %w", err)
	}
	return nil
}

func (r *SavedSearchRepo) ListActive(ctx context.Context, userID string, limit int) ([]models.SavedSearch, error) {
	var searches []models.SavedSearch
	err := r.db.SelectContext(ctx, &searches, `SELECT id, user_id, name, search_query, is_active, created_at
        FROM saved_searches WHERE user_id=$1 AND is_active = TRUE ORDER BY created_at DESC LIMIT $2`, userID, limit)
	return searches, err
}

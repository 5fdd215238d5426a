package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"marketplace-service/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrPhoneTaken     = errors.New("phone number already registered")
	errUniqueViolated = pq.ErrorCode("23505")
)

// UserRepository abstracts account persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, userID string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (models.User, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
	UpdateRating(ctx context.Context, userID string, rating float64, totalReviews int) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, email, phone, password_hash, user_type, login_method, city, address, shop_name,
        is_active, is_verified, rating, total_reviews, total_sales, joined_date, last_login, profile_picture,
        is_premium, verification_badges`

// CreateUser inserts a new account. Duplicate email or phone map to
// ErrEmailTaken and ErrPhoneTaken.
func (r *UserRepo) CreateUser(ctx context.Context, user models.User) error {
	if user.VerificationBadges == nil {
		user.VerificationBadges = pq.StringArray{}
	}
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO users (`+userColumns+`)
        VALUES (:id, :name, :email, :phone, :password_hash, :user_type, :login_method, :city, :address, :shop_name,
        :is_active, :is_verified, :rating, :total_reviews, :total_sales, :joined_date, :last_login, :profile_picture,
        :is_premium, :verification_badges)`, user)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == errUniqueViolated {
		if strings.Contains(pqErr.Constraint, "phone") {
			return ErrPhoneTaken
		}
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID string) (models.User, error) {
	return r.getBy(ctx, "id", userID)
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepo) GetUserByPhone(ctx context.Context, phone string) (models.User, error) {
	return r.getBy(ctx, "phone", phone)
}

func (r *UserRepo) getBy(ctx context.Context, column, value string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE `+column+`=$1`, value)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile applies the non-nil fields of update.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	sets := []string{}
	args := []any{userID}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	add("name", update.Name)
	add("phone", update.Phone)
	add("city", update.City)
	add("address", update.Address)
	add("shop_name", update.ShopName)
	add("profile_picture", update.ProfilePicture)
	if len(sets) == 0 {
		return nil
	}

	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id=$1`, args...)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == errUniqueViolated {
		return ErrPhoneTaken
	}
	return expectRow(res, err, ErrUserNotFound)
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login=$2 WHERE id=$1`, userID, at)
	return expectRow(res, err, ErrUserNotFound)
}

// UpdateRating stores the recomputed rating aggregate for a user.
func (r *UserRepo) UpdateRating(ctx context.Context, userID string, rating float64, totalReviews int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET rating=$2, total_reviews=$3 WHERE id=$1`, userID, rating, totalReviews)
	return err
}

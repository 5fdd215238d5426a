package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"marketplace-service/internal/models"
	"marketplace-service/internal/observability"
)

// UserStore is the durable user store the directory reads through to.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (models.User, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
	UpdateRating(ctx context.Context, userID string, rating float64, totalReviews int) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// UserDirectory serves user lookups cache-aside. A nil cache disables
// caching; cache failures fall back to the store. Cached profiles never carry
// the password hash, so credential checks must read the store directly.
type UserDirectory struct {
	store UserStore
	cache Cache
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewUserDirectory(store UserStore, cache Cache, ttl time.Duration, logger logrus.FieldLogger) *UserDirectory {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserDirectory{store: store, cache: cache, ttl: ttl, log: logger}
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}

func (d *UserDirectory) GetUser(ctx context.Context, userID string) (models.User, error) {
	if d.cache == nil {
		return d.store.GetUser(ctx, userID)
	}

	raw, err := d.cache.Get(ctx, profileKey(userID))
	switch {
	case err == nil:
		var cached models.User
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			observability.IncProfileCache("hit")
			return cached, nil
		}
		observability.IncProfileCache("corrupt")
	case errors.Is(err, ErrMiss):
		observability.IncProfileCache("miss")
	default:
		observability.IncProfileCache("error")
		d.log.WithError(err).WithField("user_id", userID).Warn("profile cache read failed")
	}

	user, err := d.store.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if data, err := json.Marshal(user); err == nil {
		if err := d.cache.Set(ctx, profileKey(userID), string(data), d.ttl); err != nil {
			d.log.WithError(err).WithField("user_id", userID).Warn("profile cache write failed")
		}
	}
	return user, nil
}

func (d *UserDirectory) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	if err := d.store.UpdateProfile(ctx, userID, update); err != nil {
		return err
	}
	d.Invalidate(ctx, userID)
	return nil
}

func (d *UserDirectory) UpdateRating(ctx context.Context, userID string, rating float64, totalReviews int) error {
	if err := d.store.UpdateRating(ctx, userID, rating, totalReviews); err != nil {
		return err
	}
	d.Invalidate(ctx, userID)
	return nil
}

// TouchLastLogin records a login and drops the cached profile so the next
// read reports it.
func (d *UserDirectory) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	if err := d.store.TouchLastLogin(ctx, userID, at); err != nil {
		return err
	}
	d.Invalidate(ctx, userID)
	return nil
}

// Invalidate drops the cached profile of userID.
func (d *UserDirectory) Invalidate(ctx context.Context, userID string) {
	if d.cache == nil {
		return
	}
	if _, err := d.cache.Del(ctx, profileKey(userID)); err != nil {
		d.log.WithError(err).WithField("user_id", userID).Warn("profile cache invalidation failed")
	}
}

package messaging

import (
	"context"
	"errors"
	"fmt"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

// lookup memoizes user and listing resolution for the lifetime of one call.
// A missing entity is reported as ok=false rather than an error.
type lookup struct {
	users    UserDirectory
	listings ListingCatalog

	userCache    map[string]*models.User
	listingCache map[string]*models.Listing
}

func newLookup(users UserDirectory, listings ListingCatalog) *lookup {
	return &lookup{
		users:        users,
		listings:     listings,
		userCache:    map[string]*models.User{},
		listingCache: map[string]*models.Listing{},
	}
}

func (l *lookup) user(ctx context.Context, id string) (models.User, bool, error) {
	if cached, ok := l.userCache[id]; ok {
		if cached == nil {
			return models.User{}, false, nil
		}
		return *cached, true, nil
	}
	user, err := l.users.GetUser(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		l.userCache[id] = nil
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("get user %s: %w", id, err)
	}
	l.userCache[id] = &user
	return user, true, nil
}

func (l *lookup) listing(ctx context.Context, id string) (models.Listing, bool, error) {
	if cached, ok := l.listingCache[id]; ok {
		if cached == nil {
			return models.Listing{}, false, nil
		}
		return *cached, true, nil
	}
	listing, err := l.listings.GetListing(ctx, id)
	if errors.Is(err, repositories.ErrListingNotFound) {
		l.listingCache[id] = nil
		return models.Listing{}, false, nil
	}
	if err != nil {
		return models.Listing{}, false, fmt.Errorf("get listing %s: %w", id, err)
	}
	l.listingCache[id] = &listing
	return listing, true, nil
}

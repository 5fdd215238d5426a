package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// TokenParser validates a bearer token and returns its user id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// UserLoader resolves the account behind a token.
type UserLoader interface {
	GetUser(ctx context.Context, userID string) (models.User, error)
}

// AuthMiddleware requires a valid bearer token for an existing user.
func AuthMiddleware(tokens TokenParser, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		user, err := authenticate(c.Request.Context(), tokens, users, token)
		if err != nil {
			if !errors.Is(err, repositories.ErrUserNotFound) && !errors.Is(err, errInvalidToken) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
				return
			}
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuthMiddleware(tokens TokenParser, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if user, err := authenticate(c.Request.Context(), tokens, users, token); err == nil {
				c.Set(UserIDKey, user.ID)
				c.Set(UserKey, user)
			}
		}
		c.Next()
	}
}

var errInvalidToken = errors.New("invalid token")

func authenticate(ctx context.Context, tokens TokenParser, users UserLoader, token string) (models.User, error) {
	userID, err := tokens.Parse(token)
	if err != nil {
		return models.User{}, errInvalidToken
	}
	return users.GetUser(ctx, userID)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// CurrentUser returns the authenticated user set by the auth middlewares.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(UserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

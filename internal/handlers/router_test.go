package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/middleware"
	"marketplace-service/internal/mocks"
	"marketplace-service/internal/models"
)

var (
	_ MessagingService = (*mocks.MessagingServiceMock)(nil)
	_ ProfileStore     = (*mocks.UserRepositoryMock)(nil)
	_ RatingWriter     = (*mocks.UserRepositoryMock)(nil)
	_ SellerListings   = (*mocks.ListingRepositoryMock)(nil)
)

var testUser = models.User{ID: "u-1", Name: "Ayesha", Email: "ayesha@example.com", Phone: "0300", City: "Lahore"}

// newTestRouter returns an engine whose requests run as user, or anonymously
// when user is nil.
func newTestRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if user != nil {
		u := *user
		r.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, u.ID)
			c.Set(middleware.UserKey, u)
			c.Next()
		})
	}
	return r
}

func serve(r http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

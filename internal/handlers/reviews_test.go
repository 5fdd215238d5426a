package handlers

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/mocks"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

func setupReviewRouter(reviews *mocks.ReviewRepositoryMock, listings *mocks.ListingRepositoryMock, users *mocks.UserRepositoryMock) http.Handler {
	h := NewReviewHandler(reviews, listings, users, users, nil, nil)
	r := newTestRouter(&testUser)
	r.POST("/reviews", h.CreateReview)
	r.GET("/users/:user_id/reviews", h.ListReviews)
	return r
}

const reviewBody = `{"reviewed_user_id":"s-1","listing_id":"l-1","rating":4,"comment":"smooth deal"}`

func TestCreateReviewRecomputesRating(t *testing.T) {
	reviews, listings, users := new(mocks.ReviewRepositoryMock), new(mocks.ListingRepositoryMock), new(mocks.UserRepositoryMock)
	router := setupReviewRouter(reviews, listings, users)

	listings.On("GetListing", mock.Anything, "l-1").Return(models.Listing{ID: "l-1"}, nil).Once()
	reviews.On("Exists", mock.Anything, testUser.ID, "s-1", "l-1").Return(false, nil).Once()
	reviews.On("CreateReview", mock.Anything, mock.MatchedBy(func(r models.Review) bool {
		return r.ReviewerID == testUser.ID && r.Rating == 4
	})).Return(nil).Once()
	reviews.On("RatingSummary", mock.Anything, "s-1").Return(4.5, 2, nil).Once()
	users.On("UpdateRating", mock.Anything, "s-1", 4.5, 2).Return(nil).Once()

	rec := serve(router, http.MethodPost, "/reviews", bytes.NewBufferString(reviewBody))

	require.Equal(t, http.StatusOK, rec.Code)
	reviews.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestCreateReviewRatingFailureStillSucceeds(t *testing.T) {
	reviews, listings, users := new(mocks.ReviewRepositoryMock), new(mocks.ListingRepositoryMock), new(mocks.UserRepositoryMock)
	router := setupReviewRouter(reviews, listings, users)

	listings.On("GetListing", mock.Anything, "l-1").Return(models.Listing{ID: "l-1"}, nil).Once()
	reviews.On("Exists", mock.Anything, testUser.ID, "s-1", "l-1").Return(false, nil).Once()
	reviews.On("CreateReview", mock.Anything, mock.Anything).Return(nil).Once()
	reviews.On("RatingSummary", mock.Anything, "s-1").Return(0.0, 0, assert.AnError).Once()

	rec := serve(router, http.MethodPost, "/reviews", bytes.NewBufferString(reviewBody))

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertNotCalled(t, "UpdateRating", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReviewLogsRatingFailureOnInjectedLogger(t *testing.T) {
	reviews, listings, users := new(mocks.ReviewRepositoryMock), new(mocks.ListingRepositoryMock), new(mocks.UserRepositoryMock)
	logger, hook := logtest.NewNullLogger()
	h := NewReviewHandler(reviews, listings, users, users, nil, logger)
	r := newTestRouter(&testUser)
	r.POST("/reviews", h.CreateReview)

	listings.On("GetListing", mock.Anything, "l-1").Return(models.Listing{ID: "l-1"}, nil).Once()
	reviews.On("Exists", mock.Anything, testUser.ID, "s-1", "l-1").Return(false, nil).Once()
	reviews.On("CreateReview", mock.Anything, mock.Anything).Return(nil).Once()
	reviews.On("RatingSummary", mock.Anything, "s-1").Return(4.0, 1, nil).Once()
	users.On("UpdateRating", mock.Anything, "s-1", 4.0, 1).Return(assert.AnError).Once()

	rec := serve(r, http.MethodPost, "/reviews", bytes.NewBufferString(reviewBody))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "failed to update user rating", hook.LastEntry().Message)
	assert.Equal(t, "s-1", hook.LastEntry().Data["user_id"])
}

func TestCreateReviewRejections(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		setup func(*mocks.ReviewRepositoryMock, *mocks.ListingRepositoryMock)
		code  int
	}{
		{
			name:  "rating out of range",
			body:  `{"reviewed_user_id":"s-1","listing_id":"l-1","rating":6}`,
			setup: func(*mocks.ReviewRepositoryMock, *mocks.ListingRepositoryMock) {},
			code:  http.StatusBadRequest,
		},
		{
			name: "listing missing",
			body: reviewBody,
			setup: func(_ *mocks.ReviewRepositoryMock, l *mocks.ListingRepositoryMock) {
				l.On("GetListing", mock.Anything, "l-1").Return(nil, repositories.ErrListingNotFound).Once()
			},
			code: http.StatusNotFound,
		},
		{
			name: "already reviewed",
			body: reviewBody,
			setup: func(r *mocks.ReviewRepositoryMock, l *mocks.ListingRepositoryMock) {
				l.On("GetListing", mock.Anything, "l-1").Return(models.Listing{ID: "l-1"}, nil).Once()
				r.On("Exists", mock.Anything, testUser.ID, "s-1", "l-1").Return(true, nil).Once()
			},
			code: http.StatusBadRequest,
		},
		{
			name: "lost insert race",
			body: reviewBody,
			setup: func(r *mocks.ReviewRepositoryMock, l *mocks.ListingRepositoryMock) {
				l.On("GetListing", mock.Anything, "l-1").Return(models.Listing{ID: "l-1"}, nil).Once()
				r.On("Exists", mock.Anything, testUser.ID, "s-1", "l-1").Return(false, nil).Once()
				r.On("CreateReview", mock.Anything, mock.Anything).Return(repositories.ErrReviewExists).Once()
			},
			code: http.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reviews, listings := new(mocks.ReviewRepositoryMock), new(mocks.ListingRepositoryMock)
			tc.setup(reviews, listings)

			rec := serve(setupReviewRouter(reviews, listings, new(mocks.UserRepositoryMock)),
				http.MethodPost, "/reviews", bytes.NewBufferString(tc.body))

			assert.Equal(t, tc.code, rec.Code)
			reviews.AssertExpectations(t)
			listings.AssertExpectations(t)
		})
	}
}

func TestListReviewsSkipsDeletedReviewers(t *testing.T) {
	reviews, users := new(mocks.ReviewRepositoryMock), new(mocks.UserRepositoryMock)
	router := setupReviewRouter(reviews, new(mocks.ListingRepositoryMock), users)

	now := time.Now().UTC()
	reviews.On("ListForUser", mock.Anything, "s-1", 50).Return([]models.Review{
		{ID: "r-1", ReviewerID: "u-7", Rating: 5, CreatedAt: now},
		{ID: "r-2", ReviewerID: "gone", Rating: 1, CreatedAt: now},
	}, nil).Once()
	users.On("GetUser", mock.Anything, "u-7").Return(models.User{ID: "u-7", Name: "Hamza"}, nil).Once()
	users.On("GetUser", mock.Anything, "gone").Return(nil, repositories.ErrUserNotFound).Once()

	rec := serve(router, http.MethodGet, "/users/s-1/reviews", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[[]models.ReviewResponse](t, rec)
	require.Len(t, resp, 1)
	assert.Equal(t, "Hamza", resp[0].ReviewerName)
}

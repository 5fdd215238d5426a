package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/mocks"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
	"marketplace-service/internal/storage"
)

type listingDeps struct {
	listings  *mocks.ListingRepositoryMock
	favorites *mocks.FavoriteRepositoryMock
	users     *mocks.UserRepositoryMock
	media     *mocks.MediaStoreMock
}

func newListingDeps() listingDeps {
	return listingDeps{
		listings:  new(mocks.ListingRepositoryMock),
		favorites: new(mocks.FavoriteRepositoryMock),
		users:     new(mocks.UserRepositoryMock),
		media:     new(mocks.MediaStoreMock),
	}
}

func (d listingDeps) handler() *ListingHandler {
	return NewListingHandler(d.listings, d.favorites, d.users, d.media, nil, nil)
}

func setupListingRouter(h *ListingHandler, user *models.User) http.Handler {
	r := newTestRouter(user)
	r.POST("/listings", h.CreateListing)
	r.GET("/listings", h.ListListings)
	r.GET("/listings/:listing_id", h.GetListing)
	return r
}

func TestListListingsEnrichesAndCountsViews(t *testing.T) {
	d := newListingDeps()
	router := setupListingRouter(d.handler(), &testUser)

	minPrice := int64(10000)
	d.listings.On("SearchListings", mock.Anything, models.ListingFilter{
		Brand:    "Apple",
		MinPrice: &minPrice,
		Search:   "pro",
		SortBy:   models.SortPriceLow,
		Page:     2,
		Limit:    5,
	}).Return([]models.Listing{
		{ID: "l-1", SellerID: "s-1", Brand: "Apple"},
		{ID: "l-2", SellerID: "ghost", Brand: "Apple"},
		{ID: "l-3", SellerID: "s-1", Brand: "Apple"},
	}, nil).Once()
	d.favorites.On("ListingIDs", mock.Anything, testUser.ID).Return([]string{"l-3"}, nil).Once()
	d.users.On("GetUser", mock.Anything, "s-1").Return(models.User{ID: "s-1", Name: "Shop", City: "Lahore"}, nil).Once()
	d.users.On("GetUser", mock.Anything, "ghost").Return(nil, repositories.ErrUserNotFound).Once()
	d.listings.On("IncrementViews", mock.Anything, []string{"l-1", "l-2", "l-3"}).Return(nil).Once()

	rec := serve(router, http.MethodGet, "/listings?brand=Apple&min_price=10000&search=pro&sort_by=price_low&page=2&limit=5", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[[]models.ListingResponse](t, rec)
	require.Len(t, resp, 2)
	assert.Equal(t, "l-1", resp[0].ID)
	assert.Equal(t, "Shop", resp[0].SellerName)
	assert.False(t, resp[0].IsFavorited)
	assert.True(t, resp[1].IsFavorited)
	d.listings.AssertExpectations(t)
	d.users.AssertExpectations(t)
}

func TestListListingsAnonymousSkipsFavorites(t *testing.T) {
	d := newListingDeps()
	router := setupListingRouter(d.handler(), nil)
	d.listings.On("SearchListings", mock.Anything, mock.Anything).Return([]models.Listing{}, nil).Once()

	rec := serve(router, http.MethodGet, "/listings", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	d.favorites.AssertNotCalled(t, "ListingIDs", mock.Anything, mock.Anything)
	d.listings.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestListListingsRejectsBadNumbers(t *testing.T) {
	for _, q := range []string{"min_price=cheap", "max_price=1.5", "page=0", "limit=-1", "page=10001", "page=4611686018427387904", "page=99999999999999999999"} {
		t.Run(q, func(t *testing.T) {
			d := newListingDeps()
			rec := serve(setupListingRouter(d.handler(), nil), http.MethodGet, "/listings?"+q, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			d.listings.AssertNotCalled(t, "SearchListings", mock.Anything, mock.Anything)
		})
	}
}

func TestListListingsLogsViewFailureOnInjectedLogger(t *testing.T) {
	d := newListingDeps()
	logger, hook := logtest.NewNullLogger()
	h := NewListingHandler(d.listings, d.favorites, d.users, d.media, nil, logger)
	router := setupListingRouter(h, nil)

	d.listings.On("SearchListings", mock.Anything, mock.Anything).Return([]models.Listing{{ID: "l-1", SellerID: "s-1"}}, nil).Once()
	d.users.On("GetUser", mock.Anything, "s-1").Return(models.User{ID: "s-1"}, nil).Once()
	d.listings.On("IncrementViews", mock.Anything, []string{"l-1"}).Return(assert.AnError).Once()

	rec := serve(router, http.MethodGet, "/listings?page=10000", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "failed to record listing views", hook.LastEntry().Message)
	assert.Equal(t, 1, hook.LastEntry().Data["count"])
}

func TestGetListingNotFound(t *testing.T) {
	d := newListingDeps()
	d.listings.On("GetListing", mock.Anything, "missing").Return(nil, repositories.ErrListingNotFound).Once()

	rec := serve(setupListingRouter(d.handler(), nil), http.MethodGet, "/listings/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateListingUploadsMedia(t *testing.T) {
	d := newListingDeps()
	router := setupListingRouter(d.handler(), &testUser)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"brand":          "Samsung",
		"model":          "Galaxy S23",
		"storage":        "256GB",
		"condition":      "Good",
		"price":          "95000",
		"description":    "boxed",
		"specifications": `{"ram":"8GB"}`,
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("images", "front.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg"))
	require.NoError(t, w.Close())

	d.media.On("Upload", mock.Anything, mock.MatchedBy(func(in storage.UploadInput) bool {
		return in.Prefix == "listings" && in.Filename == "front.jpg"
	})).Return(storage.UploadOutput{URL: "http://cdn/listings/a.jpg"}, nil).Once()
	d.listings.On("CreateListing", mock.Anything, mock.MatchedBy(func(l models.Listing) bool {
		return l.SellerID == testUser.ID &&
			l.Status == models.ListingActive &&
			l.PricingType == models.PricingFixed &&
			l.Specifications["ram"] == "8GB" &&
			len(l.Images) == 1 && l.Images[0] == "http://cdn/listings/a.jpg" &&
			l.ExpiresAt.Sub(l.CreatedAt) == models.ListingTTL
	})).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/listings", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Listing created successfully", decode[map[string]string](t, rec)["message"])
	d.media.AssertExpectations(t)
	d.listings.AssertExpectations(t)
}

func TestCreateListingRejectsBadSpecifications(t *testing.T) {
	d := newListingDeps()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"brand": "Apple", "model": "iPhone 13", "storage": "128GB", "condition": "Fair",
		"price": "70000", "description": "ok", "specifications": "not json",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/listings", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	setupListingRouter(d.handler(), &testUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	d.listings.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything)
}

package handlers

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/mocks"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

func setupUserRouter(users *mocks.UserRepositoryMock) http.Handler {
	h := NewUserHandler(users)
	r := newTestRouter(&testUser)
	r.GET("/users/:user_id", h.GetProfile)
	r.PUT("/users/profile", h.UpdateProfile)
	return r
}

func TestGetProfileHidesPrivateFields(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("GetUser", mock.Anything, "u-2").
		Return(models.User{ID: "u-2", Name: "Sana", Email: "sana@example.com", Phone: "0311"}, nil).Once()

	rec := serve(setupUserRouter(users), http.MethodGet, "/users/u-2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "Sana", resp["name"])
	assert.NotContains(t, resp, "email")
	assert.NotContains(t, resp, "phone")
	assert.Equal(t, []any{}, resp["verification_badges"])
}

func TestGetProfileNotFound(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("GetUser", mock.Anything, "nobody").Return(nil, repositories.ErrUserNotFound).Once()

	rec := serve(setupUserRouter(users), http.MethodGet, "/users/nobody", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	city := "Multan"
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"updated", nil, http.StatusOK},
		{"phone taken", repositories.ErrPhoneTaken, http.StatusBadRequest},
		{"store failure", assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(mocks.UserRepositoryMock)
			users.On("UpdateProfile", mock.Anything, testUser.ID, models.ProfileUpdate{City: &city}).Return(tc.err).Once()

			rec := serve(setupUserRouter(users), http.MethodPut, "/users/profile", bytes.NewBufferString(`{"city":"Multan"}`))

			assert.Equal(t, tc.code, rec.Code)
			users.AssertExpectations(t)
		})
	}
}

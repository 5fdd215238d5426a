package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByPhone(ctx context.Context, phone string) (models.User, error) {
	args := m.Called(ctx, phone)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	args := m.Called(ctx, userID, update)
	return args.Error(0)
}

func (m *UserRepositoryMock) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateRating(ctx context.Context, userID string, rating float64, totalReviews int) error {
	args := m.Called(ctx, userID, rating, totalReviews)
	return args.Error(0)
}

type ListingRepositoryMock struct {
	mock.Mock
}

func (m *ListingRepositoryMock) CreateListing(ctx context.Context, listing models.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *ListingRepositoryMock) GetListing(ctx context.Context, listingID string) (models.Listing, error) {
	args := m.Called(ctx, listingID)
	var listing models.Listing
	if val := args.Get(0); val != nil {
		listing = val.(models.Listing)
	}
	return listing, args.Error(1)
}

func (m *ListingRepositoryMock) SearchListings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	args := m.Called(ctx, filter)
	var list []models.Listing
	if val := args.Get(0); val != nil {
		list = val.([]models.Listing)
	}
	return list, args.Error(1)
}

func (m *ListingRepositoryMock) ListBySeller(ctx context.Context, sellerID string) ([]models.Listing, error) {
	args := m.Called(ctx, sellerID)
	var list []models.Listing
	if val := args.Get(0); val != nil {
		list = val.([]models.Listing)
	}
	return list, args.Error(1)
}

func (m *ListingRepositoryMock) ListByIDs(ctx context.Context, ids []string) ([]models.Listing, error) {
	args := m.Called(ctx, ids)
	var list []models.Listing
	if val := args.Get(0); val != nil {
		list = val.([]models.Listing)
	}
	return list, args.Error(1)
}

func (m *ListingRepositoryMock) IncrementViews(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *ListingRepositoryMock) IncrementInquiries(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) ResolveOrCreate(ctx context.Context, listingID, userA, userB string) (models.Conversation, bool, error) {
	args := m.Called(ctx, listingID, userA, userB)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Bool(1), args.Error(2)
}

func (m *ConversationRepositoryMock) GetConversation(ctx context.Context, conversationID string) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	args := m.Called(ctx, userID, limit)
	var list []models.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]models.Conversation)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) IncrementUnread(ctx context.Context, conversationID, participantID string) error {
	args := m.Called(ctx, conversationID, participantID)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) ResetUnread(ctx context.Context, conversationID, participantID string) error {
	args := m.Called(ctx, conversationID, participantID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Append(ctx context.Context, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, msg)
	var out models.Message
	if val := args.Get(0); val != nil {
		out = val.(models.Message)
	}
	return out, args.Error(1)
}

func (m *MessageRepositoryMock) ListByConversation(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) MarkReadForReceiver(ctx context.Context, conversationID, receiverID string) (int64, error) {
	args := m.Called(ctx, conversationID, receiverID)
	return args.Get(0).(int64), args.Error(1)
}

type ReviewRepositoryMock struct {
	mock.Mock
}

func (m *ReviewRepositoryMock) CreateReview(ctx context.Context, review models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *ReviewRepositoryMock) Exists(ctx context.Context, reviewerID, reviewedUserID, listingID string) (bool, error) {
	args := m.Called(ctx, reviewerID, reviewedUserID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepositoryMock) ListForUser(ctx context.Context, reviewedUserID string, limit int) ([]models.Review, error) {
	args := m.Called(ctx, reviewedUserID, limit)
	var list []models.Review
	if val := args.Get(0); val != nil {
		list = val.([]models.Review)
	}
	return list, args.Error(1)
}

func (m *ReviewRepositoryMock) RatingSummary(ctx context.Context, reviewedUserID string) (float64, int, error) {
	args := m.Called(ctx, reviewedUserID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type FavoriteRepositoryMock struct {
	mock.Mock
}

func (m *FavoriteRepositoryMock) AddFavorite(ctx context.Context, fav models.Favorite) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *FavoriteRepositoryMock) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}

func (m *FavoriteRepositoryMock) ListingIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	var ids []string
	if val := args.Get(0); val != nil {
		ids = val.([]string)
	}
	return ids, args.Error(1)
}

type SavedSearchRepositoryMock struct {
	mock.Mock
}

func (m *SavedSearchRepositoryMock) CreateSavedSearch(ctx context.Context, search models.SavedSearch) error {
	args := m.Called(ctx, search)
	return args.Error(0)
}

func (m *SavedSearchRepositoryMock) ListActive(ctx context.Context, userID string, limit int) ([]models.SavedSearch, error) {
	args := m.Called(ctx, userID, limit)
	var list []models.SavedSearch
	if val := args.Get(0); val != nil {
		list = val.([]models.SavedSearch)
	}
	return list, args.Error(1)
}

var (
	_ repositories.UserRepository         = (*UserRepositoryMock)(nil)
	_ repositories.ListingRepository      = (*ListingRepositoryMock)(nil)
	_ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
	_ repositories.MessageRepository      = (*MessageRepositoryMock)(nil)
	_ repositories.ReviewRepository       = (*ReviewRepositoryMock)(nil)
	_ repositories.FavoriteRepository     = (*FavoriteRepositoryMock)(nil)
	_ repositories.SavedSearchRepository  = (*SavedSearchRepositoryMock)(nil)
)

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marketplace-service/internal/messaging"
	"marketplace-service/internal/models"
	"marketplace-service/internal/storage"
)

type MessagingServiceMock struct {
	mock.Mock
}

func (m *MessagingServiceMock) SendMessage(ctx context.Context, sender models.User, in messaging.SendMessageInput) (models.Message, error) {
	args := m.Called(ctx, sender, in)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessagingServiceMock) Conversations(ctx context.Context, userID string) ([]models.ConversationView, error) {
	args := m.Called(ctx, userID)
	var list []models.ConversationView
	if val := args.Get(0); val != nil {
		list = val.([]models.ConversationView)
	}
	return list, args.Error(1)
}

func (m *MessagingServiceMock) Messages(ctx context.Context, conversationID, userID string) ([]models.MessageView, error) {
	args := m.Called(ctx, conversationID, userID)
	var list []models.MessageView
	if val := args.Get(0); val != nil {
		list = val.([]models.MessageView)
	}
	return list, args.Error(1)
}

func (m *MessagingServiceMock) MarkRead(ctx context.Context, conversationID, userID string) (int64, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MediaStoreMock struct {
	mock.Mock
}

func (m *MediaStoreMock) Upload(ctx context.Context, in storage.UploadInput) (storage.UploadOutput, error) {
	args := m.Called(ctx, in)
	var out storage.UploadOutput
	if val := args.Get(0); val != nil {
		out = val.(storage.UploadOutput)
	}
	return out, args.Error(1)
}

var (
	_ messaging.Notifier = (*NotifierMock)(nil)
	_ storage.MediaStore = (*MediaStoreMock)(nil)
)

package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"marketplace-service/internal/models"
	"marketplace-service/internal/observability"
	"marketplace-service/internal/repositories"
)

const (
	ConversationLimit = 50
	MessageLimit      = 100

	sentRoutingKey = "message_events.sent"
)

// ListingCatalog resolves listings referenced by conversations.
type ListingCatalog interface {
	GetListing(ctx context.Context, listingID string) (models.Listing, error)
	IncrementInquiries(ctx context.Context, listingID string) error
}

// UserDirectory resolves participant profiles.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (models.User, error)
}

// Notifier pushes an event to a user's live connections and reports how
// many received it.
type Notifier interface {
	Notify(ctx context.Context, userID string, event any) int
}

// SendMessageInput is what a sender submits.
type SendMessageInput struct {
	ReceiverID  string             `json:"receiver_id" binding:"required"`
	ListingID   string             `json:"listing_id" binding:"required"`
	MessageType models.MessageType `json:"message_type"`
	Content     string             `json:"content"`
	OfferAmount *int64             `json:"offer_amount"`
}

// Service implements buyer/seller messaging on top of the conversation and
// message stores.
type Service struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	listings      ListingCatalog
	users         UserDirectory
	notifier      Notifier
	log           logrus.FieldLogger
	tracer        trace.Tracer
}

func NewService(
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	listings ListingCatalog,
	users UserDirectory,
	notifier Notifier,
	logger logrus.FieldLogger,
) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		conversations: conversations,
		messages:      messages,
		listings:      listings,
		users:         users,
		notifier:      notifier,
		log:           logger.WithField("component", "messaging"),
		tracer:        otel.Tracer("marketplace-service/messaging"),
	}
}

// SendMessage stores a message from sender to in.ReceiverID about a listing,
// creating the conversation on first contact. Once the message is stored the
// call succeeds; the inquiry and unread bumps, live push and event publish
// after it only log their failures.
func (s *Service) SendMessage(ctx context.Context, sender models.User, in SendMessageInput) (models.Message, error) {
	ctx, span := s.tracer.Start(ctx, "messaging.send")
	defer span.End()

	if in.MessageType == "" {
		in.MessageType = models.MessageText
	}
	if !in.MessageType.Valid() {
		return models.Message{}, fmt.Errorf("%w: unknown message type %q", ErrInvalid, in.MessageType)
	}
	if in.ReceiverID == "" || in.ListingID == "" {
		return models.Message{}, fmt.Errorf("%w: receiver_id and listing_id are required", ErrInvalid)
	}

	if _, err := s.listings.GetListing(ctx, in.ListingID); err != nil {
		if errors.Is(err, repositories.ErrListingNotFound) {
			return models.Message{}, fmt.Errorf("%w: listing not found", ErrNotFound)
		}
		return models.Message{}, fmt.Errorf("get listing: %w", err)
	}

	conv, created, err := s.conversations.ResolveOrCreate(ctx, in.ListingID, sender.ID, in.ReceiverID)
	if err != nil {
		return models.Message{}, fmt.Errorf("resolve conversation: %w", err)
	}
	span.SetAttributes(
		attribute.String("conversation.id", conv.ID),
		attribute.Bool("conversation.created", created),
	)
	fields := logrus.Fields{"conversation_id": conv.ID, "sender_id": sender.ID, "receiver_id": in.ReceiverID}

	msg, err := s.messages.Append(ctx, models.Message{
		ConversationID: conv.ID,
		SenderID:       sender.ID,
		ReceiverID:     in.ReceiverID,
		ListingID:      in.ListingID,
		MessageType:    in.MessageType,
		Content:        in.Content,
		OfferAmount:    in.OfferAmount,
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("append message: %w", err)
	}
	observability.IncMessageSent(string(msg.MessageType))

	if created {
		if err := s.listings.IncrementInquiries(ctx, in.ListingID); err != nil {
			s.stepFailed("inquiries", err, fields)
		}
	}

	if err := s.conversations.IncrementUnread(ctx, conv.ID, in.ReceiverID); err != nil {
		s.stepFailed("unread", err, fields)
	}

	delivered := s.notifier.Notify(ctx, in.ReceiverID, models.LiveEvent{
		Type:       models.EventNewMessage,
		Message:    &msg,
		SenderName: sender.Name,
	})
	span.SetAttributes(attribute.Int("live.delivered", delivered))

	if err := observability.PublishEvent(ctx, sentRoutingKey, observability.EventEnvelope{
		EventType: "message_events",
		EventName: "message_sent",
		Payload: map[string]any{
			"message_id":           msg.ID,
			"conversation_id":      msg.ConversationID,
			"listing_id":           msg.ListingID,
			"sender_id":            msg.SenderID,
			"receiver_id":          msg.ReceiverID,
			"message_type":         msg.MessageType,
			"conversation_created": created,
			"live_deliveries":      delivered,
		},
	}, observability.BuildHeaders("", span.SpanContext().TraceID().String())); err != nil {
		s.stepFailed("publish", err, fields)
	}

	return msg, nil
}

func (s *Service) stepFailed(step string, err error, fields logrus.Fields) {
	observability.IncSendStepFailure(step)
	s.log.WithFields(fields).WithField("step", step).WithError(err).Warn("send message step failed")
}

// Conversations lists the user's conversations, most recently active first.
// Conversations whose other participant or listing no longer exists are left out.
func (s *Service) Conversations(ctx context.Context, userID string) ([]models.ConversationView, error) {
	convs, err := s.conversations.ListForUser(ctx, userID, ConversationLimit)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	lookup := newLookup(s.users, s.listings)
	views := make([]models.ConversationView, 0, len(convs))
	for _, conv := range convs {
		otherID := conv.OtherParticipant(userID)
		other, ok, err := lookup.user(ctx, otherID)
		if err != nil {
			return nil, err
		}
		listing, found, err := lookup.listing(ctx, conv.ListingID)
		if err != nil {
			return nil, err
		}
		if !ok || !found {
			continue
		}
		views = append(views, models.ConversationView{
			ID:                      conv.ID,
			OtherUserID:             otherID,
			OtherUserName:           other.Name,
			OtherUserProfilePicture: other.ProfilePicture,
			ListingID:               conv.ListingID,
			ListingTitle:            listing.Title(),
			ListingImage:            listing.Thumbnail(),
			LastMessage:             conv.LastMessage,
			LastMessageAt:           conv.LastMessageAt,
			UnreadCount:             conv.UnreadCount[userID],
			CreatedAt:               conv.CreatedAt,
		})
	}
	return views, nil
}

// FetchMessages returns the conversation and its messages in ledger order
// without changing read state.
func (s *Service) FetchMessages(ctx context.Context, conversationID, userID string) (models.Conversation, []models.Message, error) {
	conv, err := s.participantConversation(ctx, conversationID, userID)
	if err != nil {
		return models.Conversation{}, nil, err
	}
	msgs, err := s.messages.ListByConversation(ctx, conversationID, MessageLimit)
	if err != nil {
		return models.Conversation{}, nil, fmt.Errorf("list messages: %w", err)
	}
	return conv, msgs, nil
}

// MarkRead marks every message addressed to userID in the conversation as
// read and zeroes the user's unread counter. It returns how many messages changed.
func (s *Service) MarkRead(ctx context.Context, conversationID, userID string) (int64, error) {
	if _, err := s.participantConversation(ctx, conversationID, userID); err != nil {
		return 0, err
	}
	return s.markRead(ctx, conversationID, userID)
}

func (s *Service) markRead(ctx context.Context, conversationID, userID string) (int64, error) {
	changed, err := s.messages.MarkReadForReceiver(ctx, conversationID, userID)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	if err := s.conversations.ResetUnread(ctx, conversationID, userID); err != nil {
		return changed, fmt.Errorf("reset unread: %w", err)
	}
	return changed, nil
}

// Messages is what a participant sees when opening a conversation: the
// messages, enriched for display, after everything addressed to them has
// been marked read.
func (s *Service) Messages(ctx context.Context, conversationID, userID string) ([]models.MessageView, error) {
	_, msgs, err := s.FetchMessages(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.markRead(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	lookup := newLookup(s.users, s.listings)
	views := make([]models.MessageView, 0, len(msgs))
	for _, msg := range msgs {
		if msg.ReceiverID == userID {
			msg.IsRead = true
		}
		sender, okSender, err := lookup.user(ctx, msg.SenderID)
		if err != nil {
			return nil, err
		}
		receiver, okReceiver, err := lookup.user(ctx, msg.ReceiverID)
		if err != nil {
			return nil, err
		}
		listing, okListing, err := lookup.listing(ctx, msg.ListingID)
		if err != nil {
			return nil, err
		}
		if !okSender || !okReceiver || !okListing {
			continue
		}
		views = append(views, models.MessageView{
			ID:                   msg.ID,
			SenderID:             msg.SenderID,
			SenderName:           sender.Name,
			SenderProfilePicture: sender.ProfilePicture,
			ReceiverID:           msg.ReceiverID,
			ReceiverName:         receiver.Name,
			ListingID:            msg.ListingID,
			ListingTitle:         listing.Title(),
			MessageType:          msg.MessageType,
			Content:              msg.Content,
			OfferAmount:          msg.OfferAmount,
			IsRead:               msg.IsRead,
			CreatedAt:            msg.CreatedAt,
		})
	}
	return views, nil
}

func (s *Service) participantConversation(ctx context.Context, conversationID, userID string) (models.Conversation, error) {
	conv, err := s.conversations.GetConversation(ctx, conversationID)
	if errors.Is(err, repositories.ErrConversationNotFound) {
		return models.Conversation{}, fmt.Errorf("%w: conversation not found", ErrNotFound)
	}
	if err != nil {
		return models.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	if !conv.HasParticipant(userID) {
		return models.Conversation{}, fmt.Errorf("%w: not a participant of this conversation", ErrNotAuthorized)
	}
	return conv, nil
}

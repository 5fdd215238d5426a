package messaging_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

// memStore keeps conversations and messages in memory with the same
// semantics as the SQL repositories.
type memStore struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	messages      []models.Message
	clock         time.Time
}

func newMemStore() *memStore {
	return &memStore{
		conversations: map[string]*models.Conversation{},
		clock:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func samePair(conv *models.Conversation, a, b string) bool {
	p := conv.ParticipantIDs
	return (p[0] == a && p[1] == b) || (p[0] == b && p[1] == a)
}

func (s *memStore) ResolveOrCreate(_ context.Context, listingID, userA, userB string) (models.Conversation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conv := range s.conversations {
		if conv.ListingID == listingID && samePair(conv, userA, userB) {
			return cloneConv(conv), false, nil
		}
	}
	conv := &models.Conversation{
		ID:             uuid.NewString(),
		ParticipantIDs: pq.StringArray{userA, userB},
		ListingID:      listingID,
		UnreadCount:    models.UnreadCounts{userA: 0, userB: 0},
		CreatedAt:      s.tick(),
	}
	s.conversations[conv.ID] = conv
	return cloneConv(conv), true, nil
}

func (s *memStore) GetConversation(_ context.Context, id string) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return models.Conversation{}, repositories.ErrConversationNotFound
	}
	return cloneConv(conv), nil
}

func (s *memStore) ListForUser(_ context.Context, userID string, limit int) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Conversation
	for _, conv := range s.conversations {
		if conv.HasParticipant(userID) {
			out = append(out, cloneConv(conv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return activity(out[i]).After(activity(out[j]))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func activity(c models.Conversation) time.Time {
	if c.LastMessageAt != nil {
		return *c.LastMessageAt
	}
	return c.CreatedAt
}

func (s *memStore) IncrementUnread(_ context.Context, id, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return repositories.ErrConversationNotFound
	}
	conv.UnreadCount[participantID]++
	return nil
}

func (s *memStore) ResetUnread(_ context.Context, id, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return repositories.ErrConversationNotFound
	}
	conv.UnreadCount[participantID] = 0
	return nil
}

func (s *memStore) Append(_ context.Context, msg models.Message) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[msg.ConversationID]
	if !ok {
		return models.Message{}, repositories.ErrConversationNotFound
	}
	msg.ID = uuid.NewString()
	msg.IsRead = false
	msg.CreatedAt = s.tick()
	s.messages = append(s.messages, msg)

	content, at := msg.Content, msg.CreatedAt
	conv.LastMessage = &content
	conv.LastMessageAt = &at
	return msg, nil
}

func (s *memStore) ListByConversation(_ context.Context, conversationID string, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) MarkReadForReceiver(_ context.Context, conversationID, receiverID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.messages {
		m := &s.messages[i]
		if m.ConversationID == conversationID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (s *memStore) conversation(id string) models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneConv(s.conversations[id])
}

func cloneConv(c *models.Conversation) models.Conversation {
	out := *c
	out.ParticipantIDs = append(pq.StringArray(nil), c.ParticipantIDs...)
	out.UnreadCount = models.UnreadCounts{}
	for k, v := range c.UnreadCount {
		out.UnreadCount[k] = v
	}
	return out
}

type catalog struct {
	mu        sync.Mutex
	listings  map[string]models.Listing
	inquiries map[string]int
}

func newCatalog(listings ...models.Listing) *catalog {
	c := &catalog{listings: map[string]models.Listing{}, inquiries: map[string]int{}}
	for _, l := range listings {
		c.listings[l.ID] = l
	}
	return c
}

func (c *catalog) GetListing(_ context.Context, id string) (models.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.listings[id]
	if !ok {
		return models.Listing{}, repositories.ErrListingNotFound
	}
	return l, nil
}

func (c *catalog) IncrementInquiries(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inquiries[id]++
	return nil
}

type directory map[string]models.User

func (d directory) GetUser(_ context.Context, id string) (models.User, error) {
	u, ok := d[id]
	if !ok {
		return models.User{}, repositories.ErrUserNotFound
	}
	return u, nil
}

type push struct {
	userID string
	event  any
}

type recordingNotifier struct {
	mu     sync.Mutex
	pushes []push
	online map[string]bool
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, event any) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.online[userID] {
		return 0
	}
	n.pushes = append(n.pushes, push{userID: userID, event: event})
	return 1
}

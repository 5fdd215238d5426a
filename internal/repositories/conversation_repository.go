package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"marketplace-service/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository abstracts conversation persistence, including the
// per-participant unread counters stored on each conversation.
type ConversationRepository interface {
	ResolveOrCreate(ctx context.Context, listingID, userA, userB string) (models.Conversation, bool, error)
	GetConversation(ctx context.Context, conversationID string) (models.Conversation, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Conversation, error)
	IncrementUnread(ctx context.Context, conversationID, participantID string) error
	ResetUnread(ctx context.Context, conversationID, participantID string) error
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

const conversationColumns = `id, participant_ids, listing_id, last_message, last_message_at, unread_count, created_at`

// ResolveOrCreate returns the conversation for the listing and the unordered
// participant pair, creating it on first contact. The boolean result reports
// whether this call created it. A concurrent first contact that loses the
// insert race on the pair index falls back to the winner's row.
func (r *ConversationRepo) ResolveOrCreate(ctx context.Context, listingID, userA, userB string) (models.Conversation, bool, error) {
	conv, err := r.findByPair(ctx, listingID, userA, userB)
	if err == nil {
		return conv, false, nil
	}
	if !errors.Is(err, ErrConversationNotFound) {
		return models.Conversation{}, false, err
	}

	conv = models.Conversation{
		ID:             uuid.NewString(),
		ParticipantIDs: pq.StringArray{userA, userB},
		ListingID:      listingID,
		UnreadCount:    models.UnreadCounts{userA: 0, userB: 0},
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
	res, err := r.db.NamedExecContext(ctx, `INSERT INTO conversations (id, participant_ids, listing_id, unread_count, created_at)
        VALUES (:id, :participant_ids, :listing_id, :unread_count, :created_at)
        ON CONFLICT DO NOTHING`, conv)
	if err != nil {
		return models.Conversation{}, false, fmt.Errorf("insert conversation: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return models.Conversation{}, false, err
	}
	if inserted == 1 {
		return conv, true, nil
	}

	conv, err = r.findByPair(ctx, listingID, userA, userB)
	return conv, false, err
}

func (r *ConversationRepo) findByPair(ctx context.Context, listingID, userA, userB string) (models.Conversation, error) {
	var conv models.Conversation
	query := `SELECT ` + conversationColumns + ` FROM conversations
        WHERE listing_id=$1
          AND LEAST(participant_ids[1], participant_ids[2]) = LEAST($2::text, $3::text)
          AND GREATEST(participant_ids[1], participant_ids[2]) = GREATEST($2::text, $3::text)`
	err := r.db.GetContext(ctx, &conv, query, listingID, userA, userB)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// GetConversation fetches a conversation by id.
func (r *ConversationRepo) GetConversation(ctx context.Context, conversationID string) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// ListForUser returns the user's conversations, most recently active first.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations
        WHERE participant_ids @> ARRAY[$1]::text[]
        ORDER BY last_message_at DESC NULLS LAST, created_at DESC
        LIMIT $2`
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs, query, userID, limit)
	return convs, err
}

// IncrementUnread adds one to the participant's unread counter.
func (r *ConversationRepo) IncrementUnread(ctx context.Context, conversationID, participantID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations
        SET unread_count = jsonb_set(unread_count, ARRAY[$2::text], to_jsonb(COALESCE((unread_count->>$2::text)::int, 0) + 1))
        WHERE id=$1`, conversationID, participantID)
	return expectRow(res, err, ErrConversationNotFound)
}

// ResetUnread sets the participant's unread counter to zero.
func (r *ConversationRepo) ResetUnread(ctx context.Context, conversationID, participantID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations
        SET unread_count = jsonb_set(unread_count, ARRAY[$2::text], '0'::jsonb)
        WHERE id=$1`, conversationID, participantID)
	return expectRow(res, err, ErrConversationNotFound)
}

func expectRow(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/models"
)

// MessageRepository is the append-only message ledger.
type MessageRepository interface {
	Append(ctx context.Context, msg models.Message) (models.Message, error)
	ListByConversation(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
	MarkReadForReceiver(ctx context.Context, conversationID, receiverID string) (int64, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, conversation_id, sender_id, receiver_id, listing_id, message_type, content, offer_amount, is_read, created_at`

// Append stores msg as unread at the end of its conversation and updates the
// conversation's last-message preview in the same transaction.
func (r *MessageRepo) Append(ctx context.Context, msg models.Message) (models.Message, error) {
	msg.ID = uuid.NewString()
	msg.IsRead = false
	msg.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.NamedExecContext(ctx, `INSERT INTO messages (`+messageColumns+`)
        VALUES (:id, :conversation_id, :sender_id, :receiver_id, :listing_id, :message_type, :content, :offer_amount, :is_read, :created_at)`, msg); err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE conversations SET last_message=$2, last_message_at=$3 WHERE id=$1`,
		msg.ConversationID, msg.Content, msg.CreatedAt)
	if err := expectRow(res, err, ErrConversationNotFound); err != nil {
		return models.Message{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Message{}, fmt.Errorf("commit append: %w", err)
	}
	return msg, nil
}

// ListByConversation returns up to limit messages in ledger order.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
        WHERE conversation_id=$1
        ORDER BY created_at ASC, seq ASC
        LIMIT $2`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, conversationID, limit)
	return msgs, err
}

// MarkReadForReceiver flips every unread message addressed to receiverID in
// the conversation to read and returns how many changed.
func (r *MessageRepo) MarkReadForReceiver(ctx context.Context, conversationID, receiverID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE
        WHERE conversation_id=$1 AND receiver_id=$2 AND is_read = FALSE`, conversationID, receiverID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/models"
)

const updatePreview = `UPDATE conversations SET last_message=$2, last_message_at=$3 WHERE id=$1`

func TestAppendStoresMessageAndPreviewTogether(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO messages (`+messageColumns+`)`)).
		WithArgs(sqlmock.AnyArg(), "c1", "A", "B", "L1", "offer", "Would you take 90k?", sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(updatePreview)).
		WithArgs("c1", "Would you take 90k?", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	offer := int64(90000)
	msg, err := repo.Append(context.Background(), models.Message{
		ConversationID: "c1",
		SenderID:       "A",
		ReceiverID:     "B",
		ListingID:      "L1",
		MessageType:    models.MessageOffer,
		Content:        "Would you take 90k?",
		OfferAmount:    &offer,
		IsRead:         true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.IsRead)
	assert.Equal(t, msg.CreatedAt, msg.CreatedAt.Truncate(time.Microsecond))
	assert.Equal(t, time.UTC, msg.CreatedAt.Location())
}

func TestAppendRollsBackWhenConversationIsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO messages`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(updatePreview)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Append(context.Background(), models.Message{ConversationID: "gone", Content: "hi"})
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestAppendRollsBackWhenInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO messages`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Append(context.Background(), models.Message{ConversationID: "c1", Content: "hi"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestListByConversationUsesLedgerOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cols := []string{"id", "conversation_id", "sender_id", "receiver_id", "listing_id", "message_type", "content", "offer_amount", "is_read", "created_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("m1", "c1", "A", "B", "L1", "text", "first", nil, true, at).
		AddRow("m2", "c1", "B", "A", "L1", "offer", "second", int64(85000), false, at)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE conversation_id=$1 ORDER BY created_at ASC, seq ASC LIMIT $2`)).
		WithArgs("c1", 100).
		WillReturnRows(rows)

	msgs, err := repo.ListByConversation(context.Background(), "c1", 100)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
	assert.Equal(t, models.MessageOffer, msgs[1].MessageType)
	require.NotNil(t, msgs[1].OfferAmount)
	assert.Equal(t, int64(85000), *msgs[1].OfferAmount)
}

func TestMarkReadForReceiverOnlyTouchesUnreadIncoming(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE messages SET is_read = TRUE WHERE conversation_id=$1 AND receiver_id=$2 AND is_read = FALSE`)).
		WithArgs("c1", "B").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkReadForReceiver(context.Background(), "c1", "B")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

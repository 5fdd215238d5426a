package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/messaging"
	"marketplace-service/internal/models"
	"marketplace-service/internal/telemetry"
)

// MessagingService is the buyer/seller messaging core.
type MessagingService interface {
	SendMessage(ctx context.Context, sender models.User, in messaging.SendMessageInput) (models.Message, error)
	Conversations(ctx context.Context, userID string) ([]models.ConversationView, error)
	Messages(ctx context.Context, conversationID, userID string) ([]models.MessageView, error)
	MarkRead(ctx context.Context, conversationID, userID string) (int64, error)
}

// MessageHandler exposes conversations and messages over HTTP.
type MessageHandler struct {
	svc   MessagingService
	audit *telemetry.AuditEmitter
}

func NewMessageHandler(svc MessagingService, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{svc: svc, audit: audit}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req messaging.SendMessageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), currentUser(c), req)
	if err != nil {
		messagingError(c, err)
		return
	}

	emitAudit(c, h.audit, telemetry.LevelInfo, telemetry.ActionMessageSend, msg.ConversationID, nil)
	c.JSON(http.StatusOK, gin.H{
		"message":         "Message sent successfully",
		"message_id":      msg.ID,
		"conversation_id": msg.ConversationID,
	})
}

func (h *MessageHandler) ListConversations(c *gin.Context) {
	convs, err := h.svc.Conversations(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		messagingError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

// GetMessages returns the conversation's messages and marks those addressed
// to the caller as read.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	msgs, err := h.svc.Messages(c.Request.Context(), c.Param("conversation_id"), currentUser(c).ID)
	if err != nil {
		messagingError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	changed, err := h.svc.MarkRead(c.Request.Context(), c.Param("conversation_id"), currentUser(c).ID)
	if err != nil {
		messagingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": changed})
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-service/internal/middleware"
	"marketplace-service/internal/observability"
	"marketplace-service/internal/telemetry"
)

const requestIDContextKey = "request_id"

// requestIDFromContext returns the request id, minting and caching one when
// the caller sent none.
func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(requestIDContextKey); id != "" {
		return id
	}
	requestID := c.GetHeader(observability.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

// actorID is the authenticated user id, if any.
func actorID(c *gin.Context) *string {
	if userID := c.GetString(middleware.UserIDKey); userID != "" {
		return &userID
	}
	return nil
}

// emitAudit emits one record for the current request. actor overrides the
// authenticated user, for actions like login that run before auth.
func emitAudit(c *gin.Context, emitter *telemetry.AuditEmitter, level telemetry.Level, action, subject string, actor *string) {
	if actor == nil {
		actor = actorID(c)
	}
	emitter.Emit(c.Request.Context(), telemetry.AuditRecord{
		Level:     level,
		Action:    action,
		Subject:   subject,
		RequestID: requestIDFromContext(c),
		UserID:    actor,
	})
}

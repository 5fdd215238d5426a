package telemetry

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any, headers map[string]string) error
}

type Level string

const (
	LevelInfo Level = "INFO"
	LevelWarn Level = "WARN"
)

// Audit actions recorded by the API.
const (
	ActionRegister      = "auth.register"
	ActionLogin         = "auth.login"
	ActionLoginFailed   = "auth.login_failed"
	ActionListingCreate = "listing.create"
	ActionReviewCreate  = "review.create"
	ActionMessageSend   = "message.send"
	ActionDebug         = "debug.audit_test"
)

// AuditRecord is one security-relevant action. Subject names the resource
// acted on, if any.
type AuditRecord struct {
	Level     Level
	Action    string
	Subject   string
	Text      string
	RequestID string
	UserID    *string
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	UserID        *string      `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level   Level  `json:"level"`
	Action  string `json:"action"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
}

// AuditEmitter publishes audit records to the event bus.
type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	now         func() time.Time
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		now:         time.Now,
	}
}

// Emit publishes rec. A nil emitter drops it; publish failures are logged.
func (e *AuditEmitter) Emit(ctx context.Context, rec AuditRecord) {
	if e == nil || e.publisher == nil {
		return
	}
	if rec.Level == "" {
		rec.Level = LevelInfo
	}

	envelope := AuditEnvelope{
		SchemaVersion: 2,
		EventType:     "audit_log",
		OccurredAt:    e.now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     rec.RequestID,
		UserID:        rec.UserID,
		Payload: AuditPayload{
			Level:   rec.Level,
			Action:  rec.Action,
			Subject: rec.Subject,
			Text:    rec.Text,
		},
	}

	headers := map[string]string{"x-audit-action": rec.Action}
	if rec.RequestID != "" {
		headers["x-request-id"] = rec.RequestID
	}
	if err := e.publisher.Publish(ctx, e.routingKey, envelope, headers); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": rec.RequestID,
			"action":     rec.Action,
		}).Warn("audit publish failed")
	}
}

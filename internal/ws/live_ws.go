package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

// LiveHandler serves the per-user live channel.
type LiveHandler struct {
	registry       *Registry
	maxMessageSize int64
	log            logrus.FieldLogger
}

// NewLiveHandler constructs a LiveHandler.
func NewLiveHandler(registry *Registry, maxMessageSize int64, logger logrus.FieldLogger) *LiveHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LiveHandler{registry: registry, maxMessageSize: maxMessageSize, log: logger}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers it under the path user id.
func (h *LiveHandler) Handle(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	ctx, span := otel.Tracer("marketplace-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Debug("websocket upgrade failed")
		return
	}
	if h.maxMessageSize > 0 {
		conn.SetReadLimit(h.maxMessageSize)
	}

	info := connInfoFromRequest(c.Request, span.SpanContext().TraceID().String(), time.Now())
	session := h.registry.Register(userID, conn, info)
	h.log.WithFields(session.Info.Fields()).Debug("live connection opened")

	// The request context ends when this handler returns.
	connCtx := context.WithoutCancel(ctx)
	publishLiveEvent(connCtx, "ws_connect", session.Info, "")
	go h.readLoop(connCtx, session, conn)
}

func (h *LiveHandler) readLoop(ctx context.Context, session *Session, conn *websocket.Conn) {
	var closeReason string
	defer func() {
		if h.registry.Unregister(session.UserID, session.ID) {
			publishLiveEvent(ctx, "ws_disconnect", session.Info, closeReason)
		}
		_ = session.Close()
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				publishLiveEvent(ctx, "ws_error", session.Info, closeReason)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if err := session.Send(echo(data)); err != nil {
			closeReason = err.Error()
			return
		}
	}
}

func echo(data []byte) []byte {
	return []byte("Message received: " + string(data))
}

package ws

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"marketplace-service/internal/observability"
)

// ConnInfo describes who opened a live connection and from where. The
// registry fills ConnID and UserID on Register.
type ConnInfo struct {
	ConnID      string
	UserID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

func connInfoFromRequest(r *http.Request, traceID string, now time.Time) ConnInfo {
	return ConnInfo{
		DeviceID:    observability.DeviceIDFromRequest(r),
		IP:          observability.IPFromRequest(r),
		RequestID:   observability.RequestIDFromRequest(r),
		TraceID:     traceID,
		ConnectedAt: now,
	}
}

// Age is how long the connection has been open at now.
func (i ConnInfo) Age(now time.Time) time.Duration {
	if i.ConnectedAt.IsZero() {
		return 0
	}
	return now.Sub(i.ConnectedAt)
}

func (i ConnInfo) Fields() logrus.Fields {
	return logrus.Fields{
		"user_id":   i.UserID,
		"conn_id":   i.ConnID,
		"device_id": i.DeviceID,
		"ip":        i.IP,
	}
}

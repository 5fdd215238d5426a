package ws

import (
	"context"
	"time"

	"marketplace-service/internal/observability"
)

const liveRoutingKey = "ws_events.live"

func publishLiveEvent(ctx context.Context, event string, info ConnInfo, reason string) {
	observability.IncWSEvent(event)

	duration := info.Age(time.Now()).Milliseconds()
	_ = observability.PublishEvent(ctx, liveRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]any{
			"ws": map[string]any{
				"kind":        "live",
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": duration,
				"reason":      reason,
			},
			"identity": map[string]any{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}

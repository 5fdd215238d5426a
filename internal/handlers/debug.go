package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/telemetry"
)

// PresenceCounter reports how many users hold at least one live connection.
type PresenceCounter interface {
	Users() int
}

// RegisterDebugRoutes wires operator-only endpoints when enabled.
func RegisterDebugRoutes(router gin.IRoutes, emitter *telemetry.AuditEmitter, presence PresenceCounter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		emitAudit(c, emitter, telemetry.LevelInfo, telemetry.ActionDebug, "", nil)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/debug/presence", func(c *gin.Context) {
		online := 0
		if presence != nil {
			online = presence.Users()
		}
		c.JSON(http.StatusOK, gin.H{"online_users": online})
	})
}

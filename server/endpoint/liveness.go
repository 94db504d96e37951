package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/keepalive/supervisor"
)

// Liveness returns a handler that answers 200 while the supervisor loop is
// alive and 503 once it has stopped.
func Liveness(src StatusSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := src.Snapshot().State
		status, httpStatus := "alive", http.StatusOK
		if state == supervisor.Stopped {
			status, httpStatus = "stopped", http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, gin.H{
			"status":    status,
			"state":     state.String(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

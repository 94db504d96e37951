package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/keepalive/logger"
)

// probePaths are polled by orchestrators and not worth a log line each.
var probePaths = map[string]bool{
	"/livez":  true,
	"/health": true,
}

// RequestLogger logs every request with method, path, status and duration.
// Probe paths are skipped. A nil log uses the global logger.
func RequestLogger(log *logger.Logger) Middleware {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := logger.MergeWithDuration(map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": sw.status,
			}, time.Since(start))
			if id := sw.Header().Get(HeaderRequestID); id != "" {
				fields["request_id"] = id
			}

			logByStatus(log, fields, sw.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}

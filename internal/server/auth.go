package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/teemow/personal-calendar-mcp/internal/config"
	"github.com/teemow/personal-calendar-mcp/internal/instrumentation"
	"github.com/teemow/personal-calendar-mcp/internal/logging"
)

// RequireAPIKey returns middleware enforcing the configured API key.
//
// The key is read from provider on every request. When it is set, the
// Authorization header must equal "Bearer <key>" byte for byte; anything else
// is answered with 401 before next runs. When it is unset every request is let
// through.
func RequireAPIKey(provider config.Provider, metrics *instrumentation.Metrics, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg := provider.Load()
			if !cfg.AuthEnabled() {
				metrics.RecordAuthAttempt(r.Context(), instrumentation.AuthResultOpen)
				next.ServeHTTP(w, r)
				return
			}

			if !bearerMatches(r.Header.Get("Authorization"), cfg.APIKey) {
				metrics.RecordAuthAttempt(r.Context(), instrumentation.AuthResultFailure)
				logger.Debug("rejected request with missing or invalid API key",
					logging.Status(instrumentation.AuthResultFailure),
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr)
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				return
			}

			metrics.RecordAuthAttempt(r.Context(), instrumentation.AuthResultSuccess)
			next.ServeHTTP(w, r)
		})
	}
}

func bearerMatches(header, key string) bool {
	expected := "Bearer " + key
	return subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1
}

package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cardgate/cardgate/internal/gate/types"
)

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now().UTC()
			next.ServeHTTP(w, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("from", r.RemoteAddr),
				zap.Duration("dur", time.Since(start)))
		})
	}
}

// corsMiddleware answers preflights and stamps permissive CORS headers
// on every response. The readers themselves are not browsers, but
// browser-based fleet testers post to the same endpoint, so the headers
// are unconditional.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, x-api-key")

		if r.Method == http.MethodOptions {
			// Preflights never reach the decoder or any store.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// apiKeyMiddleware enforces the x-api-key header when a key is
// configured. Constant-time compare; an empty configured key disables
// the check entirely (deployment variant, not a core requirement).
func apiKeyMiddleware(key string, dialect types.Dialect) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" {
				got := r.Header.Get("x-api-key")
				if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
					writeJSON(w, http.StatusUnauthorized, dialect.Deny("unauthorized"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

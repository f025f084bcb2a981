package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/agenthub/agenthub/internal/auth"
	"github.com/agenthub/agenthub/internal/metrics"
	"github.com/agenthub/agenthub/internal/model"
)

// bearerPrefix is the expected authorization scheme.
const bearerPrefix = "Bearer "

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Codec   *auth.Codec
	Metrics metrics.Recorder
}

// Auth returns a middleware that authenticates requests from their bearer
// token. Verification is a pure function of the token and the signing
// secret: no I/O, no partial success. On success the caller identity is
// bound into the request context for downstream handlers.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				recorder.IncTokenVerification("missing")
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_credential"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "MISSING_CREDENTIAL", "Authorization header missing or malformed")
				return
			}

			claims, err := cfg.Codec.Verify(token)
			if err != nil {
				recorder.IncTokenVerification("invalid")
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "INVALID_CREDENTIAL", "Invalid bearer token")
				return
			}

			recorder.IncTokenVerification("valid")

			identity := &model.Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken reads the bearer credential from the Authorization
// header. Returns false for a missing header or a non-Bearer scheme.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	token := strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return "", false
	}
	return token, true
}

// writeAuthError writes a 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}

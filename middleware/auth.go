package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-standings/session"
)

// Authenticate requires a valid bearer token and stores the resulting
// session in the request context.
func Authenticate(provider *session.Provider, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			s, err := provider.Parse(token)
			if err != nil {
				logger.Debug("rejected bearer token", slog.String("path", r.URL.Path), slog.Any("error", err))
				msg := "invalid or expired token"
				if errors.Is(err, session.ErrTokenRevoked) {
					msg = "session has ended"
				}
				writeError(w, http.StatusUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

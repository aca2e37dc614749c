package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/szahir/taskboard/internal/session"
)

// Auth guards the task API with the session cookie. Health checks and the
// user endpoints (signup, login, google, logout) stay public: logout reads
// the cookie itself so an expired session can still be cleared.
type Auth struct {
	sessions *session.Manager
}

func NewAuth(sessions *session.Manager) *Auth {
	return &Auth{sessions: sessions}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cleanPath := path.Clean(r.URL.Path)
		if cleanPath == "/health" || strings.HasPrefix(cleanPath, "/api/v1/user/") {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := session.TokenFromRequest(r)
		if !ok {
			writeAuthError(w, "session cookie required")
			return
		}

		userID, err := a.sessions.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, session.ErrRevoked) {
				writeAuthError(w, "invalid or expired session")
				return
			}
			slog.ErrorContext(r.Context(), "session verification failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"code":    "INTERNAL_ERROR",
					"message": "internal server error",
				},
			})
			return
		}

		ctx := SetUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

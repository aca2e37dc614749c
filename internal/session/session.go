// Package session issues and verifies the signed cookie that carries the
// authenticated user across requests. Tokens are HS256 JWTs with the user
// id as subject and a unique jti so individual sessions can be revoked
// server-side on logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "taskboard_session"

var (
	ErrInvalidToken = errors.New("invalid or expired session token")
	ErrRevoked      = errors.New("session has been revoked")
)

type Manager struct {
	secret      []byte
	ttl         time.Duration
	crossOrigin bool
	revoker     RevocationStore
}

func NewManager(secret string, ttl time.Duration, crossOrigin bool, revoker RevocationStore) *Manager {
	if revoker == nil {
		revoker = NewMemoryRevocationStore()
	}
	return &Manager{
		secret:      []byte(secret),
		ttl:         ttl,
		crossOrigin: crossOrigin,
		revoker:     revoker,
	}
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue mints a session token for the given user id.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify validates the token signature and expiry, checks the revocation
// store, and returns the user id it was issued for.
func (m *Manager) Verify(ctx context.Context, tokenStr string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if c.Subject == "" {
		return "", ErrInvalidToken
	}

	revoked, err := m.revoker.IsRevoked(ctx, c.ID)
	if err != nil {
		return "", fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return "", ErrRevoked
	}

	return c.Subject, nil
}

// Revoke invalidates the given token server-side until its natural expiry.
// A malformed token is treated as already dead.
func (m *Manager) Revoke(ctx context.Context, tokenStr string) error {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid || c.ID == "" {
		return nil
	}

	ttl := time.Until(c.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return m.revoker.Revoke(ctx, c.ID, ttl)
}

// SetCookie attaches a freshly issued session cookie to the response.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.crossOrigin,
		SameSite: m.sameSite(),
	})
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.crossOrigin,
		SameSite: m.sameSite(),
	})
}

func (m *Manager) sameSite() http.SameSite {
	// Cross-origin deployments need SameSite=None so the browser attaches
	// the cookie to API calls from the frontend's origin.
	if m.crossOrigin {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// TokenFromRequest extracts the raw session token, if any.
func TokenFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

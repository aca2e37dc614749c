package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/szahir/taskboard/internal/session"
)

func newManager(t *testing.T, ttl time.Duration) *session.Manager {
	t.Helper()
	return session.NewManager("test-secret", ttl, false, session.NewMemoryRevocationStore())
}

func TestIssueAndVerify(t *testing.T) {
	m := newManager(t, time.Hour)

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := m.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want user-1", userID)
	}
}

func TestVerify_Expired(t *testing.T) {
	m := newManager(t, -time.Minute)

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Verify(context.Background(), token); !errors.Is(err, session.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	m := newManager(t, time.Hour)
	other := session.NewManager("other-secret", time.Hour, false, session.NewMemoryRevocationStore())

	token, err := other.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Verify(context.Background(), token); !errors.Is(err, session.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	m := newManager(t, time.Hour)
	if _, err := m.Verify(context.Background(), "not-a-jwt"); !errors.Is(err, session.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRevoke(t *testing.T) {
	m := newManager(t, time.Hour)
	ctx := context.Background()

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := m.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	if _, err := m.Verify(ctx, token); !errors.Is(err, session.ErrRevoked) {
		t.Errorf("err = %v, want ErrRevoked", err)
	}

	// Other sessions for the same user stay valid.
	second, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(ctx, second); err != nil {
		t.Errorf("second session rejected: %v", err)
	}
}

func TestRevoke_GarbageIsNoop(t *testing.T) {
	m := newManager(t, time.Hour)
	if err := m.Revoke(context.Background(), "not-a-jwt"); err != nil {
		t.Errorf("Revoke: %v", err)
	}
}

func TestSetAndClearCookie(t *testing.T) {
	m := newManager(t, time.Hour)

	rec := httptest.NewRecorder()
	m.SetCookie(rec, "tok")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != session.CookieName || c.Value != "tok" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	cleared := rec.Result().Cookies()[0]
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Errorf("clear cookie = %q maxAge=%d", cleared.Value, cleared.MaxAge)
	}
}

func TestSetCookie_CrossOrigin(t *testing.T) {
	m := session.NewManager("s", time.Hour, true, session.NewMemoryRevocationStore())

	rec := httptest.NewRecorder()
	m.SetCookie(rec, "tok")
	c := rec.Result().Cookies()[0]
	if c.SameSite != http.SameSiteNoneMode {
		t.Errorf("SameSite = %v, want None", c.SameSite)
	}
	if !c.Secure {
		t.Error("cross-origin cookie must be Secure")
	}
}

func TestMemoryRevocationStore_Expiry(t *testing.T) {
	s := session.NewMemoryRevocationStore()
	ctx := context.Background()

	if err := s.Revoke(ctx, "jti-1", 10*time.Millisecond); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, err := s.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("IsRevoked = %v, %v; want true, nil", revoked, err)
	}

	time.Sleep(20 * time.Millisecond)
	revoked, err = s.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("IsRevoked after expiry = %v, %v; want false, nil", revoked, err)
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := session.TokenFromRequest(r); ok {
		t.Error("expected no token on bare request")
	}

	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"})
	tok, ok := session.TokenFromRequest(r)
	if !ok || tok != "tok" {
		t.Errorf("TokenFromRequest = %q, %v", tok, ok)
	}
}

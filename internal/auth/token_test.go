package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TestTokenRoundTrip проверяет выпуск и разбор access-токена.
func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", "business-plan", time.Hour)
	userID := uuid.New()

	token, expiresAt, err := manager.IssueAccessToken(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected expiry in the future, got %v", expiresAt)
	}

	parsed, err := manager.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parsed != userID {
		t.Fatalf("expected %s, got %s", userID, parsed)
	}
}

// TestParseAccessTokenRejectsForeignTokens проверяет отказ для чужого секрета, издателя и истекшего токена.
func TestParseAccessTokenRejectsForeignTokens(t *testing.T) {
	manager := NewTokenManager("secret", "business-plan", time.Hour)

	other, _, _ := NewTokenManager("other", "business-plan", time.Hour).IssueAccessToken(uuid.New())
	if _, err := manager.ParseAccessToken(other); err == nil {
		t.Fatal("expected error for foreign secret")
	}

	issuer, _, _ := NewTokenManager("secret", "someone-else", time.Hour).IssueAccessToken(uuid.New())
	if _, err := manager.ParseAccessToken(issuer); err == nil {
		t.Fatal("expected error for foreign issuer")
	}

	expired := NewTokenManager("secret", "business-plan", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, _ := expired.IssueAccessToken(uuid.New())
	if _, err := manager.ParseAccessToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

// TestJWTMiddleware проверяет заголовок Authorization и параметр access_token.
func TestJWTMiddleware(t *testing.T) {
	manager := NewTokenManager("secret", "business-plan", time.Hour)
	userID := uuid.New()
	token, _, _ := manager.IssueAccessToken(userID)

	e := echo.New()
	handler := JWTMiddleware(manager)(func(c echo.Context) error {
		got, ok := UserIDFromContext(c)
		if !ok || got != userID {
			t.Fatalf("expected user %s in context, got %v (ok=%v)", userID, got, ok)
		}
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("expected success with header, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?access_token="+token, nil)
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("expected success with query token, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/?access_token="+token, nil)
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err == nil {
		t.Fatal("expected query token to be rejected for POST")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic abc")
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err == nil {
		t.Fatal("expected error for non-bearer header")
	}
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/service"
)

func issue(t *testing.T, tokens *service.TokenService, role string) string {
	t.Helper()
	signed, err := tokens.Issue(domain.Identity{ID: "acme", Username: "alice", Email: "alice@acme.test", Role: role})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body["error"]
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, domain.RolePartner))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens)(func(c echo.Context) error {
		called = true
		identity := Identity(c)
		if identity == nil {
			t.Fatalf("identity not set")
		}
		if identity.ID != "acme" || identity.Username != "alice" || identity.Role != domain.RolePartner {
			t.Fatalf("unexpected identity: %+v", identity)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	foreign := service.NewTokenService("other-secret", time.Hour)

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{name: "missing header", header: "", wantMsg: "Missing or invalid token"},
		{name: "wrong scheme", header: "Token abc", wantMsg: "Missing or invalid token"},
		{name: "lowercase scheme", header: "bearer abc", wantMsg: "Missing or invalid token"},
		{name: "garbage token", header: "Bearer not-a-token", wantMsg: "Invalid token"},
		{name: "foreign signature", header: "Bearer " + issue(t, foreign, domain.RoleAdmin), wantMsg: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Auth(tokens)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if err := handler(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if got := errorBody(t, rec); got != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

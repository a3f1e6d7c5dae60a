package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/service"
)

const testSecret = "middleware-test-secret"

func newTokens(t *testing.T) *service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return tokens
}

func issue(t *testing.T, tokens *service.TokenService, role string) string {
	t.Helper()
	signed, err := tokens.Issue(domain.Claims{ID: "7", Username: "alice", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return signed
}

// serve runs h against req and renders any returned error the way echo would.
func serve(e *echo.Echo, h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tokens := newTokens(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, domain.RoleUser))

	called := false
	handler := Auth(tokens)(func(c echo.Context) error {
		called = true
		if c.Get(ContextKeyUsername) != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get(ContextKeyRole) != domain.RoleUser {
			t.Fatalf("role not set")
		}
		if c.Get(ContextKeyUserID) != "7" {
			t.Fatalf("user id not set")
		}
		claims, ok := c.Get(ContextKeyClaims).(domain.Claims)
		if !ok || claims.Username != "alice" {
			t.Fatalf("claims not set: %#v", c.Get(ContextKeyClaims))
		}
		return c.NoContent(http.StatusOK)
	})

	rec := serve(e, handler, req)
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	e := echo.New()
	tokens := newTokens(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+issue(t, tokens, domain.RoleAdmin))

	rec := serve(e, Auth(tokens)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tokens := newTokens(t)
	other, err := service.NewTokenService("some-other-secret")
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token abc", http.StatusUnauthorized},
		{"scheme only", "Bearer", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusForbidden},
		{"foreign signature", "Bearer " + issue(t, other, domain.RoleAdmin), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := serve(e, Auth(tokens)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			}), req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_UnauthorizedSetsChallenge(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := serve(e, Auth(newTokens(t))(func(c echo.Context) error { return nil }), req)
	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "Bearer" {
		t.Fatalf("expected Bearer challenge, got %q", got)
	}
}

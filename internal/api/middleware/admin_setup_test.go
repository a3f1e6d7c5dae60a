package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
)

func TestAdminSetup(t *testing.T) {
	tokens := newTokens(t)
	adminToken := issue(t, tokens, domain.RoleAdmin)
	userToken := issue(t, tokens, domain.RoleUser)

	cases := []struct {
		name          string
		setupToken    string
		authorization string
		setupHeader   string
		wantCode      int
		wantBootstrap bool
	}{
		{"admin bearer", "s3cret", "Bearer " + adminToken, "", http.StatusOK, false},
		{"admin bearer wins over setup header", "s3cret", "Bearer " + adminToken, "wrong", http.StatusOK, false},
		{"user bearer", "s3cret", "Bearer " + userToken, "", http.StatusForbidden, false},
		{"bad bearer", "s3cret", "Bearer junk", "", http.StatusForbidden, false},
		{"setup token", "s3cret", "", "s3cret", http.StatusOK, true},
		{"wrong setup token", "s3cret", "", "guess", http.StatusForbidden, false},
		{"nothing", "s3cret", "", "", http.StatusUnauthorized, false},
		{"bootstrap disabled", "", "", "anything", http.StatusUnauthorized, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/auth/register-admin", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			if tc.setupHeader != "" {
				req.Header.Set(HeaderSetupToken, tc.setupHeader)
			}

			bootstrap := false
			handler := AdminSetup(tokens, tc.setupToken)(func(c echo.Context) error {
				bootstrap, _ = c.Get(ContextKeyAdminBootstrap).(bool)
				return c.NoContent(http.StatusOK)
			})

			rec := serve(e, handler, req)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if bootstrap != tc.wantBootstrap {
				t.Fatalf("expected bootstrap=%v, got %v", tc.wantBootstrap, bootstrap)
			}
		})
	}
}

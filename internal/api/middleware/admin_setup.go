package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/metrics"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

const (
	// HeaderSetupToken carries the one-time admin bootstrap secret.
	HeaderSetupToken = "X-Setup-Token"
	// ContextKeyAdminBootstrap is true when a request was admitted by setup token.
	ContextKeyAdminBootstrap = "admin_bootstrap"
)

// AdminSetup guards admin registration. A request carrying an Authorization
// header must belong to an admin. Otherwise a matching X-Setup-Token admits
// it as a bootstrap request, which the service honours only while no admin
// exists. An empty setupToken disables the bootstrap path.
func AdminSetup(tokens ports.TokenVerifier, setupToken string) echo.MiddlewareFunc {
	auth := Auth(tokens)
	requireAdmin := RequireRole(domain.RoleAdmin)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		asAdmin := auth(requireAdmin(next))

		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) != "" {
				return asAdmin(c)
			}

			provided := c.Request().Header.Get(HeaderSetupToken)
			if setupToken == "" || provided == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return echo.NewHTTPError(http.StatusUnauthorized, "admin token or setup token required")
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(setupToken)) != 1 {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "invalid setup token")
			}

			c.Set(ContextKeyAdminBootstrap, true)
			return next(c)
		}
	}
}

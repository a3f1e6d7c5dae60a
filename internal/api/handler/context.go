package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/middleware"
)

// callerID returns the id of the authenticated caller, or "" on public routes.
func callerID(c echo.Context) string {
	id, _ := c.Get(middleware.ContextKeyUserID).(string)
	return id
}

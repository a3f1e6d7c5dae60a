package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/metrics"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

// DirectorHandler handles HTTP requests for directors.
type DirectorHandler struct {
	service ports.DirectorService
	logger  zerolog.Logger
}

func NewDirectorHandler(service ports.DirectorService, logger zerolog.Logger) *DirectorHandler {
	return &DirectorHandler{service: service, logger: logger}
}

// List handles GET /directors.
//
// @Summary      List directors
// @Tags         directors
// @Produce      json
// @Success      200  {array}   directorResponse
// @Failure      500  {object}  errorResponse
// @Router       /directors [get]
func (h *DirectorHandler) List(c echo.Context) error {
	directors, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDirectorResponses(directors))
}

// Get handles GET /directors/:id.
//
// @Summary      Get a director
// @Tags         directors
// @Produce      json
// @Param        id   path      string  true  "Director id"
// @Success      200  {object}  directorResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /directors/{id} [get]
func (h *DirectorHandler) Get(c echo.Context) error {
	director, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDirectorResponse(director))
}

// Create handles POST /directors.
//
// @Summary      Create a director
// @Tags         directors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      directorRequest  true  "Director"
// @Success      201   {object}  directorResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /directors [post]
func (h *DirectorHandler) Create(c echo.Context) error {
	var req directorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	director, err := h.service.Create(c.Request().Context(), toDirectorInput(req))
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("director", "create").Inc()
	h.logger.Info().Str("director_id", director.ID).Str("user_id", callerID(c)).Msg("director created")

	return c.JSON(http.StatusCreated, toDirectorResponse(director))
}

// Update handles PUT /directors/:id. Admin only.
//
// @Summary      Replace a director
// @Tags         directors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Director id"
// @Param        body  body      directorRequest  true  "Director"
// @Success      200   {object}  directorResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /directors/{id} [put]
func (h *DirectorHandler) Update(c echo.Context) error {
	var req directorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	director, err := h.service.Update(c.Request().Context(), c.Param("id"), toDirectorInput(req))
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("director", "update").Inc()
	h.logger.Info().Str("director_id", director.ID).Str("user_id", callerID(c)).Msg("director updated")

	return c.JSON(http.StatusOK, toDirectorResponse(director))
}

// Delete handles DELETE /directors/:id. Admin only. Movies that reference
// the director keep their director_id and list with a null director_name.
//
// @Summary      Delete a director
// @Tags         directors
// @Security     BearerAuth
// @Param        id   path  string  true  "Director id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /directors/{id} [delete]
func (h *DirectorHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("director", "delete").Inc()
	h.logger.Info().Str("director_id", id).Str("user_id", callerID(c)).Msg("director deleted")

	return c.NoContent(http.StatusNoContent)
}

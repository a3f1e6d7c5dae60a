package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/metrics"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

// MovieHandler handles HTTP requests for movies.
type MovieHandler struct {
	service ports.MovieService
	logger  zerolog.Logger
}

func NewMovieHandler(service ports.MovieService, logger zerolog.Logger) *MovieHandler {
	return &MovieHandler{service: service, logger: logger}
}

// List handles GET /movies.
//
// @Summary      List movies
// @Tags         movies
// @Produce      json
// @Success      200  {array}   movieResponse
// @Failure      500  {object}  errorResponse
// @Router       /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMovieResponses(movies))
}

// Get handles GET /movies/:id.
//
// @Summary      Get a movie
// @Tags         movies
// @Produce      json
// @Param        id   path      string  true  "Movie id"
// @Success      200  {object}  movieResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /movies/{id} [get]
func (h *MovieHandler) Get(c echo.Context) error {
	movie, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMovieResponse(movie))
}

// Create handles POST /movies.
//
// @Summary      Create a movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      movieRequest  true  "Movie"
// @Success      201   {object}  movieResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	movie, err := h.service.Create(c.Request().Context(), toMovieInput(req))
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("movie", "create").Inc()
	h.logger.Info().Str("movie_id", movie.ID).Str("user_id", callerID(c)).Msg("movie created")

	return c.JSON(http.StatusCreated, toMovieResponse(movie))
}

// Update handles PUT /movies/:id. Admin only.
//
// @Summary      Replace a movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Movie id"
// @Param        body  body      movieRequest  true  "Movie"
// @Success      200   {object}  movieResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /movies/{id} [put]
func (h *MovieHandler) Update(c echo.Context) error {
	var req movieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	movie, err := h.service.Update(c.Request().Context(), c.Param("id"), toMovieInput(req))
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("movie", "update").Inc()
	h.logger.Info().Str("movie_id", movie.ID).Str("user_id", callerID(c)).Msg("movie updated")

	return c.JSON(http.StatusOK, toMovieResponse(movie))
}

// Delete handles DELETE /movies/:id. Admin only.
//
// @Summary      Delete a movie
// @Tags         movies
// @Security     BearerAuth
// @Param        id   path  string  true  "Movie id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /movies/{id} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("movie", "delete").Inc()
	h.logger.Info().Str("movie_id", id).Str("user_id", callerID(c)).Msg("movie deleted")

	return c.NoContent(http.StatusNoContent)
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/metrics"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	// Store counts requests. Nil selects an in-process token bucket.
	Store echomiddleware.RateLimiterStore
	// Requests allowed per client IP within Window.
	Requests int
	Window   time.Duration
}

// RateLimit throttles requests per client IP and answers 429 with a
// Retry-After header once the budget is spent.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 {
		cfg.Requests = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	store := cfg.Store
	retryAfter := cfg.Window
	if store == nil {
		store = echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
			Burst:     cfg.Requests,
			ExpiresIn: 3 * cfg.Window,
		})
		retryAfter = cfg.Window / time.Duration(cfg.Requests)
	}
	retrySeconds := strconv.Itoa(int(math.Max(1, math.Ceil(retryAfter.Seconds()))))

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.AuthRejectionsTotal.WithLabelValues("rate_limited").Inc()
			c.Response().Header().Set("Retry-After", retrySeconds)
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}

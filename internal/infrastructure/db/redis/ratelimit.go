package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimitStore is a fixed-window request counter shared by every API
// instance. It satisfies echo's middleware.RateLimiterStore.
// Key format: film-api:ratelimit:<identifier>:<window_start_unix>
type RateLimitStore struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

func NewRateLimitStore(client *redis.Client, limit int, window time.Duration, logger zerolog.Logger) *RateLimitStore {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimitStore{
		client: client,
		limit:  int64(limit),
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// Allow counts one request for identifier. Redis failures let the request
// through so the limiter never takes the API down with it.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	key := s.key(identifier, s.now())

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn().Err(err).Str("identifier", identifier).Msg("rate limit counter unavailable, allowing request")
		return true, nil
	}

	return incr.Val() <= s.limit, nil
}

// Window is the length of one counting window.
func (s *RateLimitStore) Window() time.Duration { return s.window }

func (s *RateLimitStore) key(identifier string, at time.Time) string {
	bucket := at.Truncate(s.window).Unix()
	return fmt.Sprintf("film-api:ratelimit:%s:%d", identifier, bucket)
}

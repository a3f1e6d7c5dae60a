package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

const (
	cacheKeyMovies    = "catalog:movies:all"
	cacheKeyDirectors = "catalog:directors:all"
)

type nopCache struct{}

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any) error         { return nil }
func (nopCache) Delete(context.Context, ...string) error        { return nil }

func cacheOrNop(c ports.CatalogCache) ports.CatalogCache {
	if c == nil {
		return nopCache{}
	}
	return c
}

// cacheGenerations counts invalidations per key within this process. A list
// loaded while its key was invalidated is served but not written back.
var cacheGenerations sync.Map

func cacheGeneration(key string) *atomic.Uint64 {
	g, _ := cacheGenerations.LoadOrStore(key, new(atomic.Uint64))
	return g.(*atomic.Uint64)
}

// readCached loads key from cache, falling back to load and repopulating the
// cache. Cache failures are logged and never surface to the caller.
func readCached[T any](ctx context.Context, cache ports.CatalogCache, logger zerolog.Logger, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	hit, err := cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
	}
	if hit {
		return cached, nil
	}

	gen := cacheGeneration(key)
	seen := gen.Load()

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	if gen.Load() != seen {
		return items, nil
	}
	if err := cache.Set(ctx, key, items); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
	return items, nil
}

func invalidate(ctx context.Context, cache ports.CatalogCache, logger zerolog.Logger, keys ...string) {
	for _, key := range keys {
		cacheGeneration(key).Add(1)
	}
	if err := cache.Delete(ctx, keys...); err != nil {
		logger.Warn().Err(err).Strs("keys", keys).Msg("catalog cache invalidation failed")
	}
}

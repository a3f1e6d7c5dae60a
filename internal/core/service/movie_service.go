package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

type MovieService struct {
	repo   ports.MovieRepository
	cache  ports.CatalogCache
	logger zerolog.Logger
}

// NewMovieService builds a MovieService. cache may be nil.
func NewMovieService(repo ports.MovieRepository, cache ports.CatalogCache, logger zerolog.Logger) *MovieService {
	return &MovieService{repo: repo, cache: cacheOrNop(cache), logger: logger}
}

// List returns every movie ordered by id, each with its director name resolved.
func (s *MovieService) List(ctx context.Context) ([]domain.Movie, error) {
	return readCached(ctx, s.cache, s.logger, cacheKeyMovies, s.repo.List)
}

func (s *MovieService) Get(ctx context.Context, id string) (*domain.Movie, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MovieService) Create(ctx context.Context, input ports.MovieInput) (*domain.Movie, error) {
	m := movieFromInput(input)
	if err := m.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &m)
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, s.logger, cacheKeyMovies)
	return created, nil
}

// Update replaces the movie identified by id with input.
func (s *MovieService) Update(ctx context.Context, id string, input ports.MovieInput) (*domain.Movie, error) {
	m := movieFromInput(input)
	if err := m.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, &m)
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, s.logger, cacheKeyMovies)
	return updated, nil
}

func (s *MovieService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, s.cache, s.logger, cacheKeyMovies)
	return nil
}

func movieFromInput(input ports.MovieInput) domain.Movie {
	return domain.Movie{
		Title:      strings.TrimSpace(input.Title),
		Year:       input.Year,
		DirectorID: strings.TrimSpace(input.DirectorID),
	}
}

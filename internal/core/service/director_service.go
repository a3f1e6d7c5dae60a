package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

type DirectorService struct {
	repo   ports.DirectorRepository
	cache  ports.CatalogCache
	logger zerolog.Logger
	now    func() time.Time
}

// NewDirectorService builds a DirectorService. cache may be nil.
func NewDirectorService(repo ports.DirectorRepository, cache ports.CatalogCache, logger zerolog.Logger) *DirectorService {
	return &DirectorService{repo: repo, cache: cacheOrNop(cache), logger: logger, now: time.Now}
}

func (s *DirectorService) List(ctx context.Context) ([]domain.Director, error) {
	return readCached(ctx, s.cache, s.logger, cacheKeyDirectors, s.repo.List)
}

func (s *DirectorService) Get(ctx context.Context, id string) (*domain.Director, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DirectorService) Create(ctx context.Context, input ports.DirectorInput) (*domain.Director, error) {
	d := domain.Director{Name: strings.TrimSpace(input.Name), BirthYear: input.BirthYear}
	if err := d.Validate(s.now().Year()); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &d)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return created, nil
}

func (s *DirectorService) Update(ctx context.Context, id string, input ports.DirectorInput) (*domain.Director, error) {
	d := domain.Director{Name: strings.TrimSpace(input.Name), BirthYear: input.BirthYear}
	if err := d.Validate(s.now().Year()); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, &d)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a director. Movies referencing it keep their director_id and
// list with a null director_name afterwards.
func (s *DirectorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

// Director names are joined into movie listings, so both lists go stale.
func (s *DirectorService) invalidate(ctx context.Context) {
	invalidate(ctx, s.cache, s.logger, cacheKeyDirectors, cacheKeyMovies)
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

var demoDirectors = []domain.Director{
	{Name: "Bong Joon-ho", BirthYear: 1969},
	{Name: "Christopher Nolan", BirthYear: 1970},
	{Name: "Hayao Miyazaki", BirthYear: 1941},
}

var demoMovies = []struct {
	title    string
	year     int
	director string
}{
	{"Parasite", 2019, "Bong Joon-ho"},
	{"The Dark Knight", 2008, "Christopher Nolan"},
}

// SeedCatalog inserts the demo directors and movies when both collections
// are empty. It reports whether anything was written.
func SeedCatalog(ctx context.Context, store ports.Store, logger zerolog.Logger) (bool, error) {
	directors, err := store.Directors().List(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: list directors: %w", err)
	}
	movies, err := store.Movies().List(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: list movies: %w", err)
	}
	if len(directors) > 0 || len(movies) > 0 {
		logger.Debug().Msg("catalog not empty, skipping seed")
		return false, nil
	}

	ids := make(map[string]string, len(demoDirectors))
	for _, d := range demoDirectors {
		d := d
		created, err := store.Directors().Create(ctx, &d)
		if err != nil {
			return false, fmt.Errorf("seed: create director %q: %w", d.Name, err)
		}
		ids[created.Name] = created.ID
	}

	for _, m := range demoMovies {
		movie := domain.Movie{Title: m.title, Year: m.year, DirectorID: ids[m.director]}
		if _, err := store.Movies().Create(ctx, &movie); err != nil {
			return false, fmt.Errorf("seed: create movie %q: %w", m.title, err)
		}
	}

	logger.Info().Int("directors", len(demoDirectors)).Int("movies", len(demoMovies)).Msg("demo catalog seeded")
	return true, nil
}

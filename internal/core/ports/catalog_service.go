package ports

import (
	"context"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
)

// MovieInput carries the writable fields of a movie.
type MovieInput struct {
	Title      string
	Year       int
	DirectorID string
}

// DirectorInput carries the writable fields of a director.
type DirectorInput struct {
	Name      string
	BirthYear int
}

// MovieService defines use-case operations for movies.
type MovieService interface {
	List(ctx context.Context) ([]domain.Movie, error)
	Get(ctx context.Context, id string) (*domain.Movie, error)
	Create(ctx context.Context, input MovieInput) (*domain.Movie, error)
	Update(ctx context.Context, id string, input MovieInput) (*domain.Movie, error)
	Delete(ctx context.Context, id string) error
}

// DirectorService defines use-case operations for directors.
type DirectorService interface {
	List(ctx context.Context) ([]domain.Director, error)
	Get(ctx context.Context, id string) (*domain.Director, error)
	Create(ctx context.Context, input DirectorInput) (*domain.Director, error)
	Update(ctx context.Context, id string, input DirectorInput) (*domain.Director, error)
	Delete(ctx context.Context, id string) error
}

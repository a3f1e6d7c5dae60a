package ports

import (
	"context"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
)

// MovieRepository defines persistence operations for movies.
// Every read resolves DirectorName with left-outer semantics.
// An id the backend cannot parse yields domain.ErrInvalidID.
type MovieRepository interface {
	// List returns all movies ordered by id ascending.
	List(ctx context.Context) ([]domain.Movie, error)
	FindByID(ctx context.Context, id string) (*domain.Movie, error)
	Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error)
	// Update replaces the writable fields of the movie identified by id.
	Update(ctx context.Context, id string, m *domain.Movie) (*domain.Movie, error)
	Delete(ctx context.Context, id string) error
}

// DirectorRepository defines persistence operations for directors.
type DirectorRepository interface {
	List(ctx context.Context) ([]domain.Director, error)
	FindByID(ctx context.Context, id string) (*domain.Director, error)
	Create(ctx context.Context, d *domain.Director) (*domain.Director, error)
	Update(ctx context.Context, id string, d *domain.Director) (*domain.Director, error)
	Delete(ctx context.Context, id string) error
}

// Store is the persistence gateway. Exactly one backend is active per process.
type Store interface {
	Name() string
	Users() UserRepository
	Movies() MovieRepository
	Directors() DirectorRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// CatalogCache is a read-through cache for catalog listings.
type CatalogCache interface {
	// Get decodes the cached value for key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

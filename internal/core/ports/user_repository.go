package ports

import (
	"context"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
)

// UserRepository defines persistence of user accounts.
// Usernames are stored exactly as given; callers normalise them first.
type UserRepository interface {
	// Create stores user and returns it with its assigned ID.
	// A taken username yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

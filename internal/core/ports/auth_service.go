package ports

import (
	"context"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	// RegisterAdmin creates an admin account. A bootstrap registration is only
	// honoured while no admin exists yet.
	RegisterAdmin(ctx context.Context, username, password string, bootstrap bool) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(claims domain.Claims) (string, error)
}

// TokenVerifier checks access tokens. Any failure is domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (domain.Claims, error)
}

type TokenService interface {
	TokenIssuer
	TokenVerifier
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo       ports.UserRepository
	tokens     ports.TokenIssuer
	bcryptCost int
	logger     zerolog.Logger

	// serialises the admin-count check with the insert for bootstrap registrations
	bootstrapMu sync.Mutex
	dummyHash   []byte
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("film-api-dummy-password"), bcryptCost)
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
		dummyHash:  dummy,
	}
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.register(ctx, username, password, domain.RoleUser)
}

func (s *AuthService) RegisterAdmin(ctx context.Context, username, password string, bootstrap bool) (*domain.User, error) {
	if !bootstrap {
		return s.register(ctx, username, password, domain.RoleAdmin)
	}

	s.bootstrapMu.Lock()
	defer s.bootstrapMu.Unlock()

	admins, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if admins > 0 {
		s.logger.Warn().Str("username", NormalizeUsername(username)).Msg("bootstrap admin registration rejected: admin already exists")
		return nil, domain.ErrForbidden
	}
	return s.register(ctx, username, password, domain.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, username, password, role string) (*domain.User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, domain.NewValidationError("username", "is required")
	}
	if len(password) < domain.MinPasswordLength {
		return nil, domain.NewValidationError("password", "must be at least 6 characters")
	}
	if len(password) > domain.MaxPasswordBytes {
		return nil, domain.NewValidationError("password", "must be at most 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", role).Msg("user registered")
	return created, nil
}

// Login verifies credentials and returns a signed token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// keep response time close to the wrong-password path
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.ClaimsFor(user))
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

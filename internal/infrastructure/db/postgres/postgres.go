package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Config captures the PostgreSQL connection and pool settings.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Debug           bool
}

// Store is the PostgreSQL persistence backend.
type Store struct {
	db        *gorm.DB
	users     *UserRepository
	movies    *MovieRepository
	directors *DirectorRepository
}

var _ ports.Store = (*Store)(nil)

// Open connects, applies pool settings, verifies connectivity and migrates the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if err := autoMigrate(db.WithContext(ctx)); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}

	return NewStore(db), nil
}

// NewStore wraps an open gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		users:     &UserRepository{db: db},
		movies:    &MovieRepository{db: db},
		directors: &DirectorRepository{db: db},
	}
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRow{}, &directorRow{}, &movieRow{})
}

func (s *Store) Name() string                        { return "postgres" }
func (s *Store) Users() ports.UserRepository         { return s.users }
func (s *Store) Movies() ports.MovieRepository       { return s.movies }
func (s *Store) Directors() ports.DirectorRepository { return s.directors }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// parseID maps non-numeric or non-positive ids to domain.ErrInvalidID.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidID
	}
	return n, nil
}

func formatID(n int64) string { return strconv.FormatInt(n, 10) }

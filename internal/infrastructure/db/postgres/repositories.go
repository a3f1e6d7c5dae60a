package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
)

// --- users ---

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := userRow{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row userRow
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.WithContext(ctx).Model(&userRow{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// --- movies ---

type MovieRepository struct {
	db *gorm.DB
}

// joined selects movies with their director's name, keeping movies whose
// director no longer exists.
func (r *MovieRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("movies AS m").
		Select("m.id, m.title, m.year, m.director_id, d.name AS director_name").
		Joins("LEFT JOIN directors AS d ON d.id = m.director_id")
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []movieJoinRow
	if err := r.joined(ctx).Order("m.id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	movies := make([]domain.Movie, 0, len(rows))
	for _, row := range rows {
		movies = append(movies, row.toDomain())
	}
	return movies, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id string) (*domain.Movie, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []movieJoinRow
	if err := r.joined(ctx).Where("m.id = ?", n).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrMovieNotFound
	}
	m := rows[0].toDomain()
	return &m, nil
}

func (r *MovieRepository) Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error) {
	directorID, err := directorRef(m.DirectorID)
	if err != nil {
		return nil, err
	}

	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := movieRow{Title: m.Title, Year: m.Year, DirectorID: directorID}
	if err := r.db.WithContext(insertCtx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return r.FindByID(ctx, formatID(row.ID))
}

func (r *MovieRepository) Update(ctx context.Context, id string, m *domain.Movie) (*domain.Movie, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	directorID, err := directorRef(m.DirectorID)
	if err != nil {
		return nil, err
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(updateCtx).Model(&movieRow{}).Where("id = ?", n).Updates(map[string]any{
		"title":       m.Title,
		"year":        m.Year,
		"director_id": directorID,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrMovieNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&movieRow{}, n)
	if res.Error != nil {
		return fmt.Errorf("delete movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

func directorRef(id string) (int64, error) {
	n, err := parseID(id)
	if err != nil {
		return 0, domain.NewValidationError("director_id", "must be a valid id")
	}
	return n, nil
}

// --- directors ---

type DirectorRepository struct {
	db *gorm.DB
}

func (r *DirectorRepository) List(ctx context.Context) ([]domain.Director, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []directorRow
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list directors: %w", err)
	}

	directors := make([]domain.Director, 0, len(rows))
	for _, row := range rows {
		directors = append(directors, *row.toDomain())
	}
	return directors, nil
}

func (r *DirectorRepository) FindByID(ctx context.Context, id string) (*domain.Director, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row directorRow
	if err := r.db.WithContext(ctx).First(&row, n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDirectorNotFound
		}
		return nil, fmt.Errorf("find director: %w", err)
	}
	return row.toDomain(), nil
}

func (r *DirectorRepository) Create(ctx context.Context, d *domain.Director) (*domain.Director, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := directorRow{Name: d.Name, BirthYear: d.BirthYear}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert director: %w", err)
	}
	return row.toDomain(), nil
}

func (r *DirectorRepository) Update(ctx context.Context, id string, d *domain.Director) (*domain.Director, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&directorRow{}).Where("id = ?", n).Updates(map[string]any{
		"name":       d.Name,
		"birth_year": d.BirthYear,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update director: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrDirectorNotFound
	}
	return &domain.Director{ID: formatID(n), Name: d.Name, BirthYear: d.BirthYear}, nil
}

func (r *DirectorRepository) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&directorRow{}, n)
	if res.Error != nil {
		return fmt.Errorf("delete director: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrDirectorNotFound
	}
	return nil
}

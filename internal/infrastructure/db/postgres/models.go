package postgres

import (
	"time"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
)

type userRow struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"size:20;not null;index"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

func (u userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           formatID(u.ID),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

type directorRow struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	BirthYear int    `gorm:"not null"`
}

func (directorRow) TableName() string { return "directors" }

func (d directorRow) toDomain() *domain.Director {
	return &domain.Director{ID: formatID(d.ID), Name: d.Name, BirthYear: d.BirthYear}
}

// movieRow keeps director_id as a plain indexed column: a movie may outlive
// its director and then lists with a null director_name.
type movieRow struct {
	ID         int64  `gorm:"primaryKey"`
	Title      string `gorm:"size:500;not null"`
	Year       int    `gorm:"not null"`
	DirectorID int64  `gorm:"not null;index"`
}

func (movieRow) TableName() string { return "movies" }

// movieJoinRow is one row of the movies LEFT JOIN directors projection.
type movieJoinRow struct {
	ID           int64
	Title        string
	Year         int
	DirectorID   int64
	DirectorName *string
}

func (r movieJoinRow) toDomain() domain.Movie {
	return domain.Movie{
		ID:           formatID(r.ID),
		Title:        r.Title,
		Year:         r.Year,
		DirectorID:   formatID(r.DirectorID),
		DirectorName: r.DirectorName,
	}
}

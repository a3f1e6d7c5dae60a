package domain

import "strings"

// MinBirthYear is the earliest accepted director birth year.
const MinBirthYear = 1900

// Movie is a catalog entry. DirectorName is resolved at read time and is nil
// when DirectorID does not point at an existing director.
type Movie struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Year         int     `json:"year"`
	DirectorID   string  `json:"director_id"`
	DirectorName *string `json:"director_name"`
}

// Director is a person who directs movies.
type Director struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthYear int    `json:"birthYear"`
}

// Validate checks the writable fields of m.
func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return NewValidationError("title", "is required")
	}
	if m.Year <= 0 {
		return NewValidationError("year", "must be a positive integer")
	}
	if strings.TrimSpace(m.DirectorID) == "" {
		return NewValidationError("director_id", "is required")
	}
	return nil
}

// Validate checks the writable fields of d against currentYear.
func (d Director) Validate(currentYear int) error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if d.BirthYear < MinBirthYear || d.BirthYear > currentYear {
		return NewValidationError("birthYear", "must be between 1900 and the current year")
	}
	return nil
}

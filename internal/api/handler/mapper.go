package handler

import (
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

// --- Request → Service input ---

// Pointer fields are non-nil once validation has passed.

func toMovieInput(req movieRequest) ports.MovieInput {
	return ports.MovieInput{
		Title:      req.Title,
		Year:       *req.Year,
		DirectorID: string(req.DirectorID),
	}
}

func toDirectorInput(req directorRequest) ports.DirectorInput {
	return ports.DirectorInput{
		Name:      req.Name,
		BirthYear: *req.BirthYear,
	}
}

// --- Domain → Response ---

func toMovieResponse(m *domain.Movie) movieResponse {
	return movieResponse{
		ID:           m.ID,
		Title:        m.Title,
		Year:         m.Year,
		DirectorID:   m.DirectorID,
		DirectorName: m.DirectorName,
	}
}

func toMovieResponses(movies []domain.Movie) []movieResponse {
	out := make([]movieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResponse(&movies[i]))
	}
	return out
}

func toDirectorResponse(d *domain.Director) directorResponse {
	return directorResponse{ID: d.ID, Name: d.Name, BirthYear: d.BirthYear}
}

func toDirectorResponses(directors []domain.Director) []directorResponse {
	out := make([]directorResponse, 0, len(directors))
	for i := range directors {
		out = append(out, toDirectorResponse(&directors[i]))
	}
	return out
}

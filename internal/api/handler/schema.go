package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type registerRequest struct {
	Username string `json:"username" validate:"notblank,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type movieRequest struct {
	Title      string  `json:"title"       validate:"notblank,max=500"`
	Year       *int    `json:"year"        validate:"required,gt=0"`
	DirectorID idValue `json:"director_id" validate:"notblank"`
}

type directorRequest struct {
	Name      string `json:"name"      validate:"notblank,max=200"`
	BirthYear *int   `json:"birthYear" validate:"required,gte=1900,pastyear"`
}

// idValue accepts an identifier sent either as a JSON string or an integer.
type idValue string

func (v *idValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = idValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("id must be a string or an integer, got %s", data)
	}
	*v = idValue(n.String())
	return nil
}

// --- Response types ---

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type registerAdminResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type movieResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Year         int     `json:"year"`
	DirectorID   string  `json:"director_id"`
	DirectorName *string `json:"director_name"`
}

type directorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthYear int    `json:"birthYear"`
}

type statusResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

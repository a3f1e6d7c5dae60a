package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// TokenTTL is the lifetime of every issued access token.
const TokenTTL = time.Hour

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// MaxPasswordBytes is the bcrypt input limit, counted in bytes.
const MaxPasswordBytes = 72

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims is the identity carried inside an access token.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ClaimsFor builds the token identity of u.
func ClaimsFor(u *User) Claims {
	return Claims{ID: u.ID, Username: u.Username, Role: u.Role}
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

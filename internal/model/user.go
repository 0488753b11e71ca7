package model

import "time"

// User mirrors the 'users' table. PasswordHash is a bcrypt hash and is never
// serialized to clients. Roles holds the parsed role set. IsActive is the
// soft-disable flag: disabled users keep their rows (ratings and advice
// reference them) but can no longer log in.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package domain

import (
	"errors"
	"time"
)

// User is an account record. PasswordHash is the bcrypt hash of the
// password; the plaintext is never stored and the hash never leaves the
// service.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists is returned on a username collision.
	ErrAlreadyExists = errors.New("user already exists")
)

package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountBanned      = errors.New("account is banned")
	ErrSessionNotFound    = errors.New("session not found")
	ErrRefreshNotFound    = errors.New("refresh token not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// SessionRecord is the profile snapshot kept alongside a session so token
// refreshes can answer /me-shaped payloads without a database round trip.
type SessionRecord struct {
	SID       string
	UserID    int64
	Email     string
	FullName  string
	Role      string
	ExpiresAt time.Time
}

type AccessClaims struct {
	UserID    int64
	SID       string
	Email     string
	Role      string
	ExpiresAt time.Time
}

type Me struct {
	ID       int64
	Email    string
	FullName string
	Role     string
}

type AuthResult struct {
	AccessToken   string
	RefreshToken  string
	AccessExpires time.Time
	Me            Me
}

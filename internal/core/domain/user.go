package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrMissingToken = errors.New("missing token")
var ErrInvalidToken = errors.New("invalid token")

// User models a registered account. Users are append-only: there is no
// update or delete path once an account exists.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated claim decoded from a bearer token. It is
// attached to a connection or request for its lifetime and is the only
// trusted source of "who is performing this mutation". Identity fields
// inside event payloads are never honoured.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

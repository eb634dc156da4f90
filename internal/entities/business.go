package entities

import (
	"errors"
	"time"
)

var (
	ErrBusinessNotFound   = errors.New("business not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Business is the authenticated tenant owning a set of orders. Every API
// operation is scoped to exactly one business.
type Business struct {
	BusinessID    string
	Name          string
	Email         string
	PasswordHash  []byte
	ContactPerson string
	Phone         string
	CreatedAt     time.Time
}

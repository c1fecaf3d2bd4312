package domain

import "errors"

// Authentication outcomes.
var (
	ErrMissingCredentials = errors.New("email and password required")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Registration outcomes.
var (
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooWeak    = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes long")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
)

// ErrPersistenceFailure replaces any storage error that reaches a caller.
var ErrPersistenceFailure = errors.New("persistence failure")

package domain

import "errors"

var (
	// ErrValidation wraps every input validation failure; the wrapping message
	// names the offending field.
	ErrValidation = errors.New("validation failed")

	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means no usable bearer token was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidToken covers malformed, expired, revoked and badly signed tokens.
	// Callers must not be able to tell these cases apart.
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("access forbidden")

	ErrEventNotFound     = errors.New("event not found")
	ErrEmptyUpdate       = errors.New("request body cannot be empty")
	ErrAlreadyRegistered = errors.New("user already registered")
)

package auth

import "errors"

var (
	// ErrUnauthorized is returned when the supplied secret does not match the configured one.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingSecret signals that no secret was supplied at all.
	ErrMissingSecret = errors.New("password is required")
)

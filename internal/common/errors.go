package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Generic service-level failure that is neither storage nor auth related.
	ErrorInternal = errors.New("internal error")

	// Authentication errors. InvalidCredentials never says which half of the
	// email/password pair was wrong; InvalidToken covers malformed, badly
	// signed, expired and revoked tokens alike.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")

	// Registration errors.
	ErrDuplicateEmail = errors.New("email already registered")
	ErrValidation     = errors.New("validation error")

	// Transaction or connection failure in the persistence layer.
	ErrStorageFailure = errors.New("storage failure")
)

// Package common defines shared constants and sentinel errors used across
// client and server layers of auth-app. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrTokenCollision is returned by a store when a freshly minted credential
	// clashes with a stored credential of the same class. Expired credentials
	// keep their value until the store releases them.
	ErrTokenCollision = errors.New("token collision")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorValidation         = errors.New("validation error")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorEmailNotVerified   = errors.New("email not verified")
	ErrorInvalidOrExpired   = errors.New("invalid or expired token")
	ErrorUnauthorized       = errors.New("unauthorized")

	// Validation details, all ErrorValidation.
	ErrRequiredFields  = fmt.Errorf("%w: required field missing", ErrorValidation)
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email address", ErrorValidation)
	ErrPasswordTooLong = fmt.Errorf("%w: password longer than 72 bytes", ErrorValidation)

	// Session errors, both unauthorized.
	ErrNoToken      = fmt.Errorf("%w: no token provided", ErrorUnauthorized)
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
)

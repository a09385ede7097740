// Package common defines shared sentinel errors used across the
// contribution-management layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Input and uniqueness violations (missing fields, duplicate tax id,
	// duplicate national id, unknown sector/region).
	ErrValidation = errors.New("validation error")

	// Role/ownership rule violations.
	ErrPermissionDenied = errors.New("permission denied")

	// Duplicate declaration period or illegal state transition.
	ErrConflict = errors.New("conflict")

	// Failed login (unknown user, wrong password, inactive account).
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (malformed, tampered or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Package common defines shared constants and sentinel errors used across
// client and server layers of HealthPod. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("already exists")

	// Client-visible read/write sentinels. Every pod operation resolves to
	// success, ErrFailedToLoad, or ErrNotLoggedIn.
	ErrFailedToLoad = errors.New("failed to load resource")
	ErrNotLoggedIn  = errors.New("not logged in")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

package models

import "time"

// RefreshToken is a stored refresh-token record. Only the SHA-256 hash of
// the token is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash []byte
	ExpiresAt time.Time
}

// Package refreshtokens provides a PostgreSQL-backed repository for the
// refresh tokens used in the server's authentication flow. Only token hashes
// are stored.
package refreshtokens

import (
	"context"
	"time"

	"github.com/healthpod/healthpod/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, tokenHash []byte, validity time.Duration) error
	Find(ctx context.Context, tokenHash []byte) (*models.RefreshToken, error)
	Delete(ctx context.Context, tokenHash []byte) error
}

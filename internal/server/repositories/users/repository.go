// Package users provides the PostgreSQL-backed repository for pod accounts.
package users

import (
	"context"

	"github.com/healthpod/healthpod/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

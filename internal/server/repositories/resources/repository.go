// Package resources provides the PostgreSQL-backed repository for pod
// resources: encrypted payload rows addressed by (user, logical path).
package resources

import (
	"context"

	"github.com/healthpod/healthpod/internal/server/models"
)

type Repository interface {
	// Upsert creates or replaces the resource at (userID, path).
	Upsert(ctx context.Context, res *models.Resource) error

	// Get returns the resource at (userID, path) or common.ErrNotFound.
	Get(ctx context.Context, userID, path string) (*models.Resource, error)

	// Delete removes the resource at (userID, path), returning its storage
	// key. Absence maps to common.ErrNotFound.
	Delete(ctx context.Context, userID, path string) (storageKey string, err error)

	// ListByPrefix returns metadata for every resource whose path starts
	// with dir + "/".
	ListByPrefix(ctx context.Context, userID, dir string) ([]*models.ResourceInfo, error)
}

// Package repomanager vends repository implementations and owns schema
// migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/healthpod/healthpod/internal/dbx"
	"github.com/healthpod/healthpod/internal/server/repositories/refreshtokens"
	"github.com/healthpod/healthpod/internal/server/repositories/resources"
	"github.com/healthpod/healthpod/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to an arbitrary DBTX so
// services can run several repository calls inside one transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Resources(db dbx.DBTX) resources.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}

package resources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/dbx"
	"github.com/healthpod/healthpod/internal/server/models"
)

// PostgresRepository implements resource storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, res *models.Resource) error {
	query := `
		INSERT INTO resources (id, user_id, path, content, storage_key, encrypted, size, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id, path)
		DO UPDATE SET
			content = EXCLUDED.content,
			storage_key = EXCLUDED.storage_key,
			encrypted = EXCLUDED.encrypted,
			size = EXCLUDED.size,
			updated_at = now()
	`

	_, err := r.db.ExecContext(ctx, query,
		res.ID, res.UserID, res.Path, res.Content, res.StorageKey, res.Encrypted, res.Size)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, path string) (*models.Resource, error) {
	query := `
		SELECT id, user_id, path, content, storage_key, encrypted, size, updated_at
		FROM resources
		WHERE user_id = $1 AND path = $2
	`

	res := &models.Resource{}
	err := r.db.QueryRowContext(ctx, query, userID, path).Scan(
		&res.ID, &res.UserID, &res.Path, &res.Content, &res.StorageKey, &res.Encrypted, &res.Size, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, path string) (string, error) {
	query := `
		DELETE FROM resources
		WHERE user_id = $1 AND path = $2
		RETURNING storage_key
	`

	var storageKey string
	err := r.db.QueryRowContext(ctx, query, userID, path).Scan(&storageKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return storageKey, nil
}

// likeEscape escapes LIKE metacharacters so a directory path is matched
// literally.
func likeEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *PostgresRepository) ListByPrefix(ctx context.Context, userID, dir string) ([]*models.ResourceInfo, error) {
	query := `
		SELECT path, size, updated_at
		FROM resources
		WHERE user_id = $1 AND path LIKE $2
		ORDER BY path
	`

	rows, err := r.db.QueryContext(ctx, query, userID, likeEscape(strings.TrimSuffix(dir, "/"))+"/%")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ResourceInfo
	for rows.Next() {
		var item models.ResourceInfo
		if err := rows.Scan(&item.Path, &item.Size, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

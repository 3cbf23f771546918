package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/logging"
	"github.com/healthpod/healthpod/internal/server/blob"
	sc "github.com/healthpod/healthpod/internal/server/config"
	"github.com/healthpod/healthpod/internal/server/models"
	"github.com/healthpod/healthpod/internal/server/repositories/repomanager"
)

// Listing is a directory view: immediate file entries and immediate
// subdirectory names.
type Listing struct {
	Files   []*models.ResourceInfo
	Subdirs []string
}

// ResourceService implements pod resource CRUD and container listing.
// Payloads above the configured inline limit are stored in the blob store
// with only metadata kept in Postgres.
type ResourceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	config      *sc.Config
	logger      logging.Logger
}

func NewResourceService(db *sql.DB, repomanager repomanager.RepositoryManager, blobs blob.Store, config *sc.Config, logger logging.Logger) *ResourceService {
	return &ResourceService{db: db, repomanager: repomanager, blobs: blobs, config: config, logger: logger}
}

// cleanPath normalizes a logical pod path and rejects traversal outside the
// storage root.
func cleanPath(p string) (string, error) {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" || p == "." || strings.HasPrefix(p, "..") {
		return "", fmt.Errorf("%w: invalid path %q", common.ErrInternal, p)
	}
	return p, nil
}

// Write stores content at (userID, path), replacing any previous version.
// A replaced blob-store object is deleted best-effort after the row commits.
func (s *ResourceService) Write(ctx context.Context, userID, resPath string, content []byte, encrypted bool) error {
	resPath, err := cleanPath(resPath)
	if err != nil {
		return err
	}

	res := &models.Resource{
		ID:        uuid.NewString(),
		UserID:    userID,
		Path:      resPath,
		Encrypted: encrypted,
		Size:      int64(len(content)),
	}

	if res.Size > s.config.InlineContentLimit {
		key := blob.NewStorageKey()
		if err := s.blobs.Put(ctx, key, content); err != nil {
			return fmt.Errorf("blob put: %w", err)
		}
		res.StorageKey = key
	} else {
		res.Content = content
	}

	// capture the storage key being replaced first; a stale read only risks
	// an orphaned blob, acceptable for a single-owner store
	var oldKey string
	if old, err := s.repomanager.Resources(s.db).Get(ctx, userID, resPath); err == nil {
		oldKey = old.StorageKey
	}

	if err := s.repomanager.Resources(s.db).Upsert(ctx, res); err != nil {
		return err
	}

	if oldKey != "" && oldKey != res.StorageKey {
		if err := s.blobs.Delete(ctx, oldKey); err != nil {
			s.logger.Warn(ctx, "orphaned blob after replace", "key", oldKey, "error", err)
		}
	}

	return nil
}

// Read returns the resource at (userID, path) with its content materialized
// from the blob store when stored out of line.
func (s *ResourceService) Read(ctx context.Context, userID, resPath string) (*models.Resource, error) {
	resPath, err := cleanPath(resPath)
	if err != nil {
		return nil, err
	}

	res, err := s.repomanager.Resources(s.db).Get(ctx, userID, resPath)
	if err != nil {
		return nil, err
	}

	if res.StorageKey != "" {
		content, err := s.blobs.Get(ctx, res.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("blob get: %w", err)
		}
		res.Content = content
	}

	return res, nil
}

// Delete removes the resource at (userID, path). Absence surfaces as
// common.ErrNotFound; blob-store cleanup is best-effort.
func (s *ResourceService) Delete(ctx context.Context, userID, resPath string) error {
	resPath, err := cleanPath(resPath)
	if err != nil {
		return err
	}

	storageKey, err := s.repomanager.Resources(s.db).Delete(ctx, userID, resPath)
	if err != nil {
		return err
	}

	if storageKey != "" {
		if err := s.blobs.Delete(ctx, storageKey); err != nil {
			s.logger.Warn(ctx, "orphaned blob after delete", "key", storageKey, "error", err)
		}
	}

	return nil
}

// List returns the immediate files and subdirectories of dir. Deeper
// descendants only contribute their first path segment as a subdirectory.
func (s *ResourceService) List(ctx context.Context, userID, dir string) (*Listing, error) {
	dir, err := cleanPath(dir)
	if err != nil {
		return nil, err
	}

	all, err := s.repomanager.Resources(s.db).ListByPrefix(ctx, userID, dir)
	if err != nil {
		return nil, err
	}

	listing := &Listing{}
	seen := map[string]bool{}

	for _, item := range all {
		rel := strings.TrimPrefix(item.Path, dir+"/")
		if idx := strings.IndexByte(rel, '/'); idx >= 0 {
			name := rel[:idx]
			if !seen[name] {
				seen[name] = true
				listing.Subdirs = append(listing.Subdirs, name)
			}
			continue
		}
		listing.Files = append(listing.Files, &models.ResourceInfo{
			Path:      rel,
			Size:      item.Size,
			UpdatedAt: item.UpdatedAt,
		})
	}

	sort.Strings(listing.Subdirs)
	return listing, nil
}

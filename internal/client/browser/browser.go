// Package browser implements the pod file browser: directory listing with
// per-subdirectory counts, accessibility validation of encrypted files, and
// the navigation history stack.
package browser

import (
	"context"
	"strings"
	"time"

	"github.com/healthpod/healthpod/internal/client/pod"
	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/logging"
)

// FileEntry is one visible file in a directory listing. Entries are rebuilt
// from scratch on every refresh and never persisted.
type FileEntry struct {
	Name           string
	Path           string
	LastModifiedAt time.Time
}

// Listing is the result of one directory pass: validated file entries,
// subdirectory names, and the shallow per-subdirectory count of matching
// files.
type Listing struct {
	Files    []FileEntry
	Subdirs  []string
	DirCount map[string]int
}

// Store is the collaborator surface the lister needs.
type Store interface {
	ReadPod(ctx context.Context, path string) ([]byte, error)
	GetResourcesInContainer(ctx context.Context, path string) (*pod.Container, error)
}

// Lister lists directories one remote call at a time: one listing request,
// one count request per subdirectory, one validation read per candidate
// file. Correctness over performance; no batching or concurrency.
type Lister struct {
	store  Store
	logger logging.Logger
}

func NewLister(store Store, logger logging.Logger) *Lister {
	return &Lister{store: store, logger: logger}
}

// List returns the browsable view of dirPath. Only files carrying the
// encrypted-container suffix that also pass a decrypt-read check are
// included. A failure of the top-level listing is logged and reported as an
// empty listing, never as an error. A failed subdirectory count is reported
// as zero.
func (l *Lister) List(ctx context.Context, dirPath string) *Listing {
	listing := &Listing{DirCount: map[string]int{}}

	container, err := l.store.GetResourcesInContainer(ctx, dirPath)
	if err != nil {
		l.logger.Error(ctx, "directory listing failed", "path", dirPath, "error", err)
		return listing
	}

	for _, f := range container.Files {
		if !strings.HasSuffix(f.Name, common.EncSuffix) {
			continue
		}
		entry := FileEntry{
			Name:           f.Name,
			Path:           dirPath + "/" + f.Name,
			LastModifiedAt: f.ModifiedAt,
		}
		if !l.validate(ctx, entry.Path) {
			continue
		}
		listing.Files = append(listing.Files, entry)
	}

	for _, sub := range container.Subdirs {
		listing.Subdirs = append(listing.Subdirs, sub)
		listing.DirCount[sub] = l.countMatching(ctx, dirPath+"/"+sub)
	}

	return listing
}

// validate performs the decrypt-read accessibility check. Only the two
// client sentinels hide a file; not-found between listing and validation is
// treated the same way.
func (l *Lister) validate(ctx context.Context, path string) bool {
	_, err := l.store.ReadPod(ctx, path)
	if err != nil {
		l.logger.Warn(ctx, "file failed validation", "path", path, "error", err)
		return false
	}
	return true
}

// countMatching returns the shallow count of suffix-matching files directly
// inside dirPath. Any failure counts as zero.
func (l *Lister) countMatching(ctx context.Context, dirPath string) int {
	container, err := l.store.GetResourcesInContainer(ctx, dirPath)
	if err != nil {
		l.logger.Warn(ctx, "subdirectory count failed", "path", dirPath, "error", err)
		return 0
	}

	n := 0
	for _, f := range container.Files {
		if strings.HasSuffix(f.Name, common.EncSuffix) {
			n++
		}
	}
	return n
}

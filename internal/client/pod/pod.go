// Package pod is the client-side storage collaborator: everything the rest
// of the CLI knows about talking to a pod. It exposes read/write/delete/list
// primitives over logical paths, handles token auth and refresh, and seals
// and opens encrypted payloads with the user's data key.
//
// Every failed operation resolves to one of two client-visible sentinels:
// common.ErrFailedToLoad (generic failure) or common.ErrNotLoggedIn
// (authentication required), plus common.ErrNotFound for absent resources.
package pod

import (
	"context"
	"time"
)

// FileInfo describes one immediate file inside a container.
type FileInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// Container is the listing of one directory: immediate files and immediate
// subdirectory names.
type Container struct {
	Files   []FileInfo
	Subdirs []string
}

// Collaborator is the storage surface consumed by the browser, transfer,
// and import/export layers.
type Collaborator interface {
	// ReadPod returns the (decrypted, when applicable) content at path.
	ReadPod(ctx context.Context, path string) ([]byte, error)

	// WritePod stores content at path, sealing it with the data key when
	// encrypted is true.
	WritePod(ctx context.Context, path string, content []byte, encrypted bool) error

	// DeleteFile removes the object at path. Absence surfaces as
	// common.ErrNotFound.
	DeleteFile(ctx context.Context, path string) error

	// GetDirURL resolves a logical directory path to its absolute URL on
	// the pod server.
	GetDirURL(path string) string

	// GetResourcesInContainer lists the immediate contents of a directory.
	GetResourcesInContainer(ctx context.Context, path string) (*Container, error)

	// EnsureSecurityKey makes sure the data key is available, prompting
	// the user when it is not cached yet.
	EnsureSecurityKey() error
}

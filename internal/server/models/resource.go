package models

import "time"

// Resource is one stored pod object, addressed by its logical path under the
// owner's storage root. Content is inline for small payloads; larger payloads
// live in the blob store under StorageKey and Content is nil.
type Resource struct {
	ID         string
	UserID     string
	Path       string
	Content    []byte
	StorageKey string
	Encrypted  bool
	Size       int64
	UpdatedAt  time.Time
}

// ResourceInfo is the listing view of a resource: metadata without content.
type ResourceInfo struct {
	Path      string
	Size      int64
	UpdatedAt time.Time
}

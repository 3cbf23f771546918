// Package blob stores large resource payloads in an S3-compatible object
// store. Small payloads live inline in Postgres and never reach this package.
package blob

import "context"

// Store is the object-store surface the resource service needs.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Package blobstore stores ingested file content under its object key.
// Objects are written once and never modified by this service.
package blobstore

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Get for a key that was never written.
var ErrObjectNotFound = errors.New("object not found")

// Store is a key-addressed binary store.
type Store interface {
	// Put writes data under key verbatim.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the bytes stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Bucket is the bucket identifier used in record back-references.
	Bucket() string
}

package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains the object storage abstraction for S3-compatible
// backends. Implementations must avoid using local disk and rely on streaming
// I/O only. The store knows nothing about documents; it moves opaque bytes
// keyed by generated names.

var (
	// ErrObjectNotFound is returned when a key does not exist in the store.
	ErrObjectNotFound = errors.New("object not found")
	// ErrEmptyObject is returned when an upload carries no bytes.
	ErrEmptyObject = errors.New("empty payload")
)

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key              string
	Size             int64
	ETag             string
	ContentType      string
	OriginalFilename string
	LastModified     time.Time
}

// BlobStore is a reusable, S3-compatible object storage client interface.
//
// All operations cross a network boundary: transient failures and logical ones
// both come back as errors, and the caller decides whether a failure is
// terminal. No retries happen at this layer.
type BlobStore interface {
	// Upload stores the payload under a freshly generated key (random
	// identifier plus the original filename's extension) and returns it.
	// Fails with ErrEmptyObject when size is zero or the reader is nil.
	Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (string, error)
	// Get retrieves an object's content as a streaming reader alongside its
	// info. Fails with ErrObjectNotFound for missing keys.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Fails with ErrObjectNotFound for
	// missing keys, so a second delete of the same key reports not-found
	// instead of silently succeeding.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL usable to download the object
	// without credentials. Fails with ErrObjectNotFound for missing keys.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Exists reports whether the key resolves to an object. It never errors;
	// any lookup failure reads as false.
	Exists(ctx context.Context, key string) bool
}

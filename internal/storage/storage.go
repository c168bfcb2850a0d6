package storage

import (
	"context"
	"io"
	"time"
)

// Package storage contains blob store abstractions with two backends: a
// local-disk directory (the default upload target) and an S3-compatible
// object store. Implementations stream content; callers own the key scheme.

// PutObjectOptions define optional parameters for uploading blobs.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored blob.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a blob store client. Implementations are safe for concurrent
// use. Get and Delete report a missing key as fs.ErrNotExist regardless of
// backend; Delete does NOT treat absence as success.
type Storage interface {
	// Put uploads a blob under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves a blob's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes a blob by key. Deleting a missing key is an error.
	Delete(ctx context.Context, key string) error
}

// Package blob defines the storage abstraction used for archived artifacts
// such as booking receipts. Backends live in subpackages; selection happens
// in the surrounding configuration layer.
package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a blob backend driver.
type Driver string

// Supported drivers.
const (
	// DriverMemory is the in-memory test driver.
	DriverMemory Driver = "memory"
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem Driver = "fs"
	// DriverS3 is the S3-compatible driver.
	DriverS3 Driver = "s3"
)

// ErrNotFound indicates the requested key does not exist.
var ErrNotFound = errors.New("blob: not found")

// ErrExists indicates a create-only write hit an existing key.
var ErrExists = errors.New("blob: already exists")

// PutOptions configures a blob write.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes stored blob metadata.
type Info struct {
	Key         string
	Size        int64
	ContentType string
	Metadata    map[string]string
	CreatedAt   time.Time
}

// Store is the interface for blob storage backends. Writes are create-only:
// archived artifacts are immutable once stored.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Delete(ctx context.Context, key string) error
}

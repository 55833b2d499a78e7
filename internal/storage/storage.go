// Package storage holds the archive backends for exported report files.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"campus_srv/internal/config"

	"github.com/sirupsen/logrus"
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Save saves a file to storage
	Save(ctx context.Context, key string, reader io.Reader) error

	// Get retrieves a file from storage
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file from storage
	Delete(ctx context.Context, key string) error

	// Exists checks whether the key is present
	Exists(ctx context.Context, key string) (bool, error)

	// List returns files under the prefix
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}

// FileInfo describes one stored object.
type FileInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Supported storage types.
const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// NewFromConfig builds the configured backend, wrapped with logging.
func NewFromConfig(cfg config.Config, logger *logrus.Logger) (Storage, error) {
	var (
		store Storage
		err   error
	)
	switch cfg.Storage.Type {
	case TypeS3:
		store, err = NewS3Storage(cfg.Storage.S3, logger)
	case TypeLocal:
		store, err = NewLocalStorage(cfg.Storage.BasePath)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
	if err != nil {
		return nil, err
	}
	return NewLoggingMiddleware(store, logger), nil
}

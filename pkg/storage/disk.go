// Package storage stores uploaded files on a named disk: "local" for the
// filesystem and "s3" for any S3-compatible bucket (AWS, MinIO, R2).
//
//	storage.Connect()
//	err := storage.Default().Put(ctx, "uploads/products/1700000000000-ab12.png", f, size, "image/png")
//	url := storage.Default().URL("uploads/products/1700000000000-ab12.png")
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrInvalidPath is returned for keys that escape the disk root.
var ErrInvalidPath = errors.New("storage: invalid path")

type Disk interface {
	// Name is the driver name, used as a metrics label.
	Name() string

	// Put writes r to key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	Exists(ctx context.Context, key string) bool

	// Delete removes key; a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL is the public URL of key.
	URL(key string) string
}

// cleanKey normalises key to a slash-separated relative path.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." || strings.Contains(key, "..") {
		return "", ErrInvalidPath
	}
	return k, nil
}

// Package storage saves uploaded media under "<folder>/<uuid>.<ext>" keys on one
// of several backends.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Object is a stored file: Key is what gets persisted, URL is what clients load.
type Object struct {
	Key string
	URL string
}

type Store interface {
	Save(ctx context.Context, folder, filename string, r io.Reader, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// Options selects and configures a backend.
type Options struct {
	Backend string // cloudinary | s3 | local

	LocalRoot string
	BaseURL   string

	CloudName string
	APIKey    string
	APISecret string

	Region string
	Bucket string
}

func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "cloudinary":
		return NewCloudinary(opts.CloudName, opts.APIKey, opts.APISecret)
	case "s3":
		return NewS3(ctx, opts.Region, opts.Bucket, opts.BaseURL)
	case "local", "":
		return NewLocal(opts.LocalRoot, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// NewKey returns a fresh object key in folder that keeps filename's extension.
func NewKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

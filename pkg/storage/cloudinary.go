package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Cloudinary stores images as Cloudinary assets whose public ID is the key
// without its extension.
type Cloudinary struct {
	uploader *uploader.API
}

// NewCloudinary builds a backend from cloud name, API key, and secret.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{uploader: up}, nil
}

func (c *Cloudinary) Save(ctx context.Context, folder, filename string, r io.Reader, _ string) (Object, error) {
	key := NewKey(folder, filename)
	overwrite := false
	result, err := c.uploader.Upload(ctx, r, uploader.UploadParams{
		PublicID:  publicID(key),
		Overwrite: &overwrite,
	})
	if err != nil {
		return Object{}, err
	}
	if result.Error.Message != "" {
		return Object{}, fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}
	return Object{Key: key, URL: result.SecureURL}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, key string) error {
	result, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID(key)})
	if err != nil {
		return err
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", result.Error.Message)
	}
	return nil
}

func publicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

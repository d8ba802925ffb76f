package service

import (
	"context"
	"io"
	"log"

	"boutique/pkg/storage"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// discard removes a stored object that is no longer referenced. Failures are
// logged; the database row is already gone or replaced.
func discard(ctx context.Context, store storage.Store, key string) {
	if key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		log.Printf("[storage] delete %s failed: %v", key, err)
	}
}

package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var keyServerURL = []byte("server_url")

// SaveServerURL remembers the server that issued the current session.
func (s *Storage) SaveServerURL(ctx context.Context, serverURL string) error {
	err := s.update(bucketMetadata, func(b *bbolt.Bucket) error {
		return b.Put(keyServerURL, []byte(serverURL))
	})
	if err != nil {
		return fmt.Errorf("failed to save server url: %w", err)
	}
	return nil
}

// GetServerURL returns the remembered server URL, "" if none.
func (s *Storage) GetServerURL(ctx context.Context) (string, error) {
	var serverURL string
	err := s.view(bucketMetadata, func(b *bbolt.Bucket) error {
		serverURL = string(b.Get(keyServerURL))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to read server url: %w", err)
	}
	return serverURL, nil
}

package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/notekeeper/internal/client/storage"
)

// клиент держит одну сессию: новый login перезаписывает предыдущий
var sessionKey = []byte("current")

// SaveAuth replaces the stored session.
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil {
		return errors.New("session is nil")
	}

	data, err := json.Marshal(auth)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return s.update(bucketSession, func(b *bbolt.Bucket) error {
		return b.Put(sessionKey, data)
	})
}

// GetAuth returns the stored session or storage.ErrAuthNotFound.
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	var auth storage.AuthData

	err := s.view(bucketSession, func(b *bbolt.Bucket) error {
		data := b.Get(sessionKey)
		if data == nil {
			return storage.ErrAuthNotFound
		}
		// data живет только внутри транзакции, Unmarshal копирует
		if err := json.Unmarshal(data, &auth); err != nil {
			return fmt.Errorf("failed to decode session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &auth, nil
}

// DeleteAuth forgets the session; storage.ErrAuthNotFound if there is none.
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.update(bucketSession, func(b *bbolt.Bucket) error {
		if b.Get(sessionKey) == nil {
			return storage.ErrAuthNotFound
		}
		return b.Delete(sessionKey)
	})
}

// IsAuthenticated reports whether an unexpired session is stored.
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.GetAuth(ctx)
	switch {
	case errors.Is(err, storage.ErrAuthNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return !auth.Expired(time.Now()), nil
}

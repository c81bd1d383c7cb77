package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/notekeeper/internal/client/storage"
)

var (
	bucketSession  = []byte("session")
	bucketMetadata = []byte("metadata")
)

// lockTimeout ограничивает ожидание файловой блокировки,
// если база открыта другим процессом notekeeper
const lockTimeout = 2 * time.Second

var (
	_ storage.AuthStorage     = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// Storage keeps the client session and small settings in a single bbolt file.
type Storage struct {
	db *bbolt.DB
}

// New opens (or creates) the database at dbPath and makes sure all buckets exist.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dbPath, err)
	}

	s := &Storage{db: db}
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the file lock. Repeated calls are no-ops.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}

func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSession, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %q: %w", name, err)
			}
		}
		return nil
	})
}

// view выполняет fn в read-only транзакции над одним bucket
func (s *Storage) view(name []byte, fn func(b *bbolt.Bucket) error) error {
	if s.db == nil {
		return storage.ErrClosed
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return fmt.Errorf("bucket %q not found", name)
		}
		return fn(b)
	})
}

// update выполняет fn в пишущей транзакции над одним bucket
func (s *Storage) update(name []byte, fn func(b *bbolt.Bucket) error) error {
	if s.db == nil {
		return storage.ErrClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return fmt.Errorf("bucket %q not found", name)
		}
		return fn(b)
	})
}

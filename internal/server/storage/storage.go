package storage

import "context"

// Storage объединяет хранилища пользователей и заметок одного backend'а
type Storage interface {
	UserStorage
	NoteStorage

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error

	// Close releases the database connection
	Close() error
}

package storage

import "context"

// MetadataStorage хранит настройки клиента между запусками
type MetadataStorage interface {
	// SaveServerURL запоминает сервер, выдавший текущую сессию
	SaveServerURL(ctx context.Context, serverURL string) error

	// GetServerURL returns the remembered server URL or "" if none
	GetServerURL(ctx context.Context) (string, error)
}

package storage

import "errors"

var (
	// ErrAuthNotFound нет сохраненной сессии
	ErrAuthNotFound = errors.New("no stored session")
	// ErrClosed хранилище уже закрыто
	ErrClosed = errors.New("local storage closed")
)

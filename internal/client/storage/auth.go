package storage

import (
	"context"
	"time"
)

// AuthStorage хранит сессию клиента: токен доступа и кому он выдан
type AuthStorage interface {
	// SaveAuth сохраняет сессию, заменяя предыдущую
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth возвращает сохраненную сессию.
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth удаляет сессию (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated reports whether a session exists and its token has not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData сессия, полученная при register или login
type AuthData struct {
	Username    string `json:"username"`
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // Unix seconds
}

// Expired reports whether the token is at or past its expiry at now
func (a *AuthData) Expired(now time.Time) bool {
	return !now.Before(time.Unix(a.ExpiresAt, 0))
}

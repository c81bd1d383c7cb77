package api

import "time"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"` // username пользователя (учитывается регистр)
	Password string `json:"password"` // пароль в открытом виде, хранится только хеш
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	ExpiresAt   time.Time `json:"expires_at"`   // момент истечения токена (UTC)
	AccessToken string    `json:"access_token"` // JWT access token
	TokenType   string    `json:"token_type"`   // всегда "Bearer"
	UserID      string    `json:"user_id"`      // UUID пользователя
	Username    string    `json:"username"`
}

// MeResponse описывает текущего пользователя
type MeResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

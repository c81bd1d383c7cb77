package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время создания
	UpdatedAt    time.Time `json:"updated_at"` // время последнего обновления
	ID           string    `json:"id"`         // UUID пользователя
	Username     string    `json:"username"`   // уникальный username, регистр учитывается
	PasswordHash string    `json:"-"`          // закодированный хеш пароля (argon2id или bcrypt)
}

// Identity is the verified user established for the duration of one request.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Identity returns the public identity of the user.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username}
}

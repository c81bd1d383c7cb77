package models

import "time"

// Note представляет заметку пользователя.
// OwnerID задается при создании и больше никогда не меняется.
type Note struct {
	CreatedAt time.Time `json:"created_at"` // время создания
	UpdatedAt time.Time `json:"updated_at"` // обновляется при каждом изменении
	ID        string    `json:"id"`         // UUID заметки
	OwnerID   string    `json:"owner_id"`   // ID владельца
	Title     string    `json:"title"`      // заголовок (обязательный)
	Content   string    `json:"content"`    // произвольный текст
	Version   int64     `json:"version"`    // счетчик оптимистичной блокировки, начинается с 1
}

// IsOwnedBy reports whether the note belongs to the given identity.
func (n *Note) IsOwnedBy(who Identity) bool {
	return who.UserID != "" && n.OwnerID == who.UserID
}

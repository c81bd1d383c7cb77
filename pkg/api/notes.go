package api

import "time"

// NoteRequest тело запроса на создание заметки
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest тело запроса на изменение заметки.
// Version необязателен: если указан, сервер отклонит запись поверх более новой версии (409).
type UpdateNoteRequest struct {
	Version *int64 `json:"version,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteResponse представление заметки в API
type NoteResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Version   int64     `json:"version"`
}

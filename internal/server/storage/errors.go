package storage

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("username already taken")

	// ErrNoteNotFound: заметки нет или она чужая, вызывающий не различает эти случаи
	ErrNoteNotFound = errors.New("note not found")
	// ErrVersionConflict: заметку изменили после того, как вызывающий ее прочитал
	ErrVersionConflict = errors.New("note version conflict")
)

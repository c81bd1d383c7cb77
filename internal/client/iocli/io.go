package iocli

import "io"

// Prompter читает ответы пользователя
type Prompter interface {
	ReadInput(prompt string) (string, error)
	// ReadPassword читает строку без эха, если ввод идет с терминала
	ReadPassword(prompt string) (string, error)
}

// IO is the terminal as seen by CLI commands. It is an io.Writer so that
// templates and colored output can render straight into it.
type IO interface {
	io.Writer
	Prompter
	Println(a ...any)
	Printf(format string, a ...any)
}

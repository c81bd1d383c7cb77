package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iudanet/notekeeper/internal/client/iocli"
	"github.com/iudanet/notekeeper/internal/client/storage"
	pkgapi "github.com/iudanet/notekeeper/pkg/api"
)

// PasswordEnv переменная окружения с паролем для неинтерактивного запуска
const PasswordEnv = "NOTEKEEPER_PASSWORD"

// AuthService управляет локальной сессией
type AuthService interface {
	Register(ctx context.Context, username, password string) (*storage.AuthData, error)
	Login(ctx context.Context, username, password string) (*storage.AuthData, error)
	Logout(ctx context.Context) error
	Stored(ctx context.Context) (*storage.AuthData, error)
	Session(ctx context.Context) (*storage.AuthData, error)
}

// NotesClient операции с заметками на сервере
type NotesClient interface {
	ListNotes(ctx context.Context, token string) ([]pkgapi.NoteResponse, error)
	GetNote(ctx context.Context, token, id string) (*pkgapi.NoteResponse, error)
	CreateNote(ctx context.Context, token string, req pkgapi.NoteRequest) (*pkgapi.NoteResponse, error)
	UpdateNote(ctx context.Context, token, id string, req pkgapi.UpdateNoteRequest) (*pkgapi.NoteResponse, error)
	DeleteNote(ctx context.Context, token, id string) error
}

// Passwords источники пароля помимо интерактивного ввода
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io          iocli.IO
	authService AuthService
	notes       NotesClient
	metadata    storage.MetadataStorage
	getenv      func(string) string
	serverURL   string
	passwords   Passwords
}

func New(io iocli.IO, authService AuthService, notes NotesClient, metadata storage.MetadataStorage, serverURL string, passwords Passwords) *Cli {
	return &Cli{
		io:          io,
		authService: authService,
		notes:       notes,
		metadata:    metadata,
		serverURL:   serverURL,
		passwords:   passwords,
		getenv:      os.Getenv,
	}
}

// getPassword retrieves the password with priority:
// 1. Environment variable NOTEKEEPER_PASSWORD
// 2. File specified in passwords.FromFile
// 3. Command-line parameter
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(prompt string) (password string, interactive bool, err error) {
	if envPassword := c.getenv(PasswordEnv); envPassword != "" {
		return envPassword, false, nil
	}

	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", false, fmt.Errorf("password file is empty")
		}
		return password, false, nil
	}

	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, false, nil
	}

	password, err = c.io.ReadPassword(prompt)
	if err != nil {
		return "", true, fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", true, fmt.Errorf("password cannot be empty")
	}

	return password, true, nil
}

// token возвращает токен действующей сессии
func (c *Cli) token(ctx context.Context) (string, error) {
	session, err := c.authService.Session(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

func PrintUsage(w io.Writer) {
	fmt.Fprint(w, `NoteKeeper Client

Usage:
  notekeeper [OPTIONS] COMMAND [ARGS]

Options:
  --version              Show version information
  --server URL           Server URL (default: last used server or http://localhost:8080)
  --db PATH              Path to local session database (default: notekeeper-client.db)
  --password PASSWORD    Password for register/login (not recommended, use env var or file)
  --password-file PATH   Path to file containing the password
  --log-level LEVEL      Client log level (default: warn)

Password priority (highest to lowest):
  1. NOTEKEEPER_PASSWORD environment variable
  2. --password-file
  3. --password
  4. Interactive prompt

Commands:
  register               Register a new user and log in
  login                  Log in and store the session locally
  logout                 Forget the local session
  status                 Show the local session
  list                   List your notes
  get <id>               Show one note
  add [-t TITLE] [-c CONTENT] [-f FILE]
                         Create a note
  edit <id> [-t TITLE] [-c CONTENT] [-f FILE]
                         Replace title and content of a note
  delete [-y] <id>       Delete a note

Examples:
  notekeeper register
  notekeeper add -t "Groceries" -c "milk, eggs"
  notekeeper add -t "Draft" -f draft.txt
  notekeeper get b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5
  notekeeper --server https://notes.example.com login
`)
}

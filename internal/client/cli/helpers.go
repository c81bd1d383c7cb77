package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"

	"github.com/iudanet/notekeeper/internal/client/api"
)

var (
	success = color.New(color.FgGreen, color.Bold)
	warning = color.New(color.FgYellow)
	heading = color.New(color.FgCyan, color.Bold)
)

func (c *Cli) printHeading(title string) {
	heading.Fprintf(c.io, "=== %s ===\n", title)
	c.io.Println()
}

func (c *Cli) printSuccess(format string, a ...any) {
	success.Fprintf(c.io, "✓ "+format+"\n", a...)
}

func (c *Cli) printWarning(format string, a ...any) {
	warning.Fprintf(c.io, "⚠️  "+format+"\n", a...)
}

// explain переводит ошибки сервера в понятные пользователю сообщения
func explain(err error, id string) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("session rejected by server, run 'notekeeper login' again")
	case http.StatusNotFound:
		if id != "" {
			return fmt.Errorf("note not found with ID: %s", id)
		}
	case http.StatusConflict:
		return fmt.Errorf("%s", apiErr.Message)
	}

	return err
}

// readContentFile читает текст заметки из файла
func readContentFile(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path given by the user
	if err != nil {
		return "", fmt.Errorf("failed to read content file: %w", err)
	}
	return string(data), nil
}

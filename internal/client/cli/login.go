package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.printHeading("Login")

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, _, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	session, err := c.authService.Login(ctx, username, password)
	if err != nil {
		return explain(err, "")
	}
	c.rememberServer(ctx)

	expiresAt := time.Unix(session.ExpiresAt, 0)

	c.io.Println()
	c.printSuccess("Login successful!")
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("Token expires in: %s\n", time.Until(expiresAt).Round(time.Second))

	return nil
}

// rememberServer сохраняет сервер сессии, чтобы следующие команды шли туда же без --server
func (c *Cli) rememberServer(ctx context.Context) {
	if c.metadata == nil || c.serverURL == "" {
		return
	}
	if err := c.metadata.SaveServerURL(ctx, c.serverURL); err != nil {
		slog.Warn("failed to remember server url", slog.Any("error", err))
	}
}

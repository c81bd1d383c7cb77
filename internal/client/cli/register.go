package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.printHeading("Registration")

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, interactive, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	// Подтверждение нужно только при вводе с клавиатуры
	if interactive {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	c.io.Println()
	c.io.Println("Registering user...")

	session, err := c.authService.Register(ctx, username, password)
	if err != nil {
		return explain(err, "")
	}
	c.rememberServer(ctx)

	c.io.Println()
	c.printSuccess("Registration successful!")
	c.io.Printf("User ID:  %s\n", session.UserID)
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("Session valid until: %s\n", time.Unix(session.ExpiresAt, 0).Format(time.RFC3339))

	return nil
}

package cli

import (
	"context"
	"errors"
	"time"

	"github.com/iudanet/notekeeper/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.printHeading("Authentication Status")

	session, err := c.authService.Stored(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'notekeeper login' to authenticate.")
			return nil
		}
		return err
	}

	expiresAt := time.Unix(session.ExpiresAt, 0)
	remaining := time.Until(expiresAt)

	c.io.Printf("Server:   %s\n", c.serverURL)
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("User ID:  %s\n", session.UserID)
	c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))

	if remaining > 0 {
		c.io.Println("Status: Authenticated")
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("Status: Session expired")
		c.printWarning("Token has expired. Please login again.")
	}

	return nil
}

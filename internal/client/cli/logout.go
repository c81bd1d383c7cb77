package cli

import (
	"context"
)

// runLogout забывает локальную сессию. Токены не отзываются на сервере:
// выданный токен остается действительным до истечения срока.
func (c *Cli) runLogout(ctx context.Context) error {
	session, err := c.authService.Stored(ctx)
	if err != nil {
		return err
	}

	if err := c.authService.Logout(ctx); err != nil {
		return err
	}

	c.printSuccess("Logged out %s. Local session removed.", session.Username)
	return nil
}

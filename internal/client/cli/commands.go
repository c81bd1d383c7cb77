package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду. Ошибка предназначена для вывода пользователю.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "list":
		return c.runList(ctx)
	case "get":
		return c.runGet(ctx, args)
	case "add":
		return c.runAdd(ctx, args)
	case "edit":
		return c.runEdit(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	default:
		PrintUsage(c.io)
		return fmt.Errorf("unknown command: %s", command)
	}
}

package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing note ID. Usage: notekeeper get <id>")
	}
	id := args[0]

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	note, err := c.notes.GetNote(ctx, token, id)
	if err != nil {
		return explain(err, id)
	}

	c.printHeading("Note Details")
	if err := noteTmpl.Execute(c.io, note); err != nil {
		return fmt.Errorf("failed to render note: %w", err)
	}

	return nil
}

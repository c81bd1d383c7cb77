package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	yes := false
	var id string
	for _, arg := range args {
		switch arg {
		case "-y", "--yes":
			yes = true
		default:
			if id == "" {
				id = arg
			}
		}
	}
	if id == "" {
		return fmt.Errorf("missing note ID. Usage: notekeeper delete [-y] <id>")
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	c.printHeading("Delete Note")

	if !yes {
		// Сначала получаем заметку для показа информации
		note, err := c.notes.GetNote(ctx, token, id)
		if err != nil {
			return explain(err, id)
		}

		c.io.Println("About to delete:")
		c.io.Printf("  Title: %s\n", note.Title)
		c.io.Printf("  ID:    %s\n", note.ID)
		c.io.Println()

		confirm, err := c.io.ReadInput("Are you sure you want to delete this note? (yes/no): ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if confirm != "yes" && confirm != "y" {
			c.io.Println()
			c.io.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := c.notes.DeleteNote(ctx, token, id); err != nil {
		return explain(err, id)
	}

	c.io.Println()
	c.printSuccess("Note deleted.")

	return nil
}

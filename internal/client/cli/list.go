package cli

import (
	"context"
	"strings"
	"time"
)

const previewLen = 60

func (c *Cli) runList(ctx context.Context) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	notes, err := c.notes.ListNotes(ctx, token)
	if err != nil {
		return explain(err, "")
	}

	c.printHeading("Notes")

	if len(notes) == 0 {
		c.io.Println("No notes found.")
		c.io.Println()
		c.io.Println("Use 'notekeeper add' to create your first note.")
		return nil
	}

	c.io.Printf("Found %d note(s):\n", len(notes))
	c.io.Println()

	for i, n := range notes {
		c.io.Printf("%d. %s\n", i+1, n.Title)
		c.io.Printf("   ID:      %s\n", n.ID)
		c.io.Printf("   Updated: %s (v%d)\n", n.UpdatedAt.Local().Format(time.DateTime), n.Version)
		if p := preview(n.Content); p != "" {
			c.io.Printf("   %s\n", p)
		}
		c.io.Println()
	}

	return nil
}

// preview первая строка текста, обрезанная до previewLen символов
func preview(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	runes := []rune(line)
	if len(runes) > previewLen {
		return string(runes[:previewLen]) + "…"
	}
	return line
}

package cli

import (
	"context"
	"fmt"

	pkgapi "github.com/iudanet/notekeeper/pkg/api"
)

const editUsage = "Usage: notekeeper edit <id> [-t TITLE] [-c CONTENT] [-f FILE]"

func (c *Cli) runEdit(ctx context.Context, args []string) error {
	nf, rest, err := parseNoteFlags("edit", args)
	if err != nil {
		return fmt.Errorf("%w. %s", err, editUsage)
	}
	if len(rest) == 0 {
		return fmt.Errorf("missing note ID. %s", editUsage)
	}
	id := rest[0]

	// флаги после id: flag.Parse останавливается на первом позиционном аргументе
	if len(rest) > 1 {
		after, _, err := parseNoteFlags("edit", rest[1:])
		if err != nil {
			return fmt.Errorf("%w. %s", err, editUsage)
		}
		if err := nf.merge(after); err != nil {
			return fmt.Errorf("%w. %s", err, editUsage)
		}
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	current, err := c.notes.GetNote(ctx, token, id)
	if err != nil {
		return explain(err, id)
	}

	c.printHeading("Edit Note")

	title := current.Title
	if nf.set["t"] {
		title = nf.title
	} else {
		input, err := c.io.ReadInput(fmt.Sprintf("Title [%s]: ", current.Title))
		if err != nil {
			return fmt.Errorf("failed to read title: %w", err)
		}
		if input != "" {
			title = input
		}
	}

	content, ok, err := nf.resolveContent()
	if err != nil {
		return err
	}
	if !ok {
		content = current.Content
		input, err := c.io.ReadInput("Content (empty keeps current): ")
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if input != "" {
			content = input
		}
	}

	// версия прочитанной заметки: чужая запись между get и put даст конфликт
	version := current.Version
	note, err := c.notes.UpdateNote(ctx, token, id, pkgapi.UpdateNoteRequest{
		Version: &version,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return explain(err, id)
	}

	c.io.Println()
	c.printSuccess("Note updated (version %d)", note.Version)

	return nil
}

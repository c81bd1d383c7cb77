package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	pkgapi "github.com/iudanet/notekeeper/pkg/api"
)

const addUsage = "Usage: notekeeper add [-t TITLE] [-c CONTENT] [-f FILE]"

// noteFlags флаги add и edit
type noteFlags struct {
	title   string
	content string
	file    string
	set     map[string]bool
}

func parseNoteFlags(name string, args []string) (*noteFlags, []string, error) {
	nf := &noteFlags{set: map[string]bool{}}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&nf.title, "t", "", "note title")
	fs.StringVar(&nf.content, "c", "", "note content")
	fs.StringVar(&nf.file, "f", "", "read content from file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(f *flag.Flag) { nf.set[f.Name] = true })

	if nf.set["c"] && nf.set["f"] {
		return nil, nil, fmt.Errorf("-c and -f are mutually exclusive")
	}

	return nf, fs.Args(), nil
}

// merge добавляет флаги из other; заданные в other значения побеждают
func (nf *noteFlags) merge(other *noteFlags) error {
	if other.set["t"] {
		nf.title = other.title
	}
	if other.set["c"] {
		nf.content = other.content
	}
	if other.set["f"] {
		nf.file = other.file
	}
	for name := range other.set {
		nf.set[name] = true
	}

	if nf.set["c"] && nf.set["f"] {
		return fmt.Errorf("-c and -f are mutually exclusive")
	}
	return nil
}

// resolveContent возвращает текст из -c или -f; ok=false, если ни один не задан
func (nf *noteFlags) resolveContent() (string, bool, error) {
	switch {
	case nf.set["f"]:
		content, err := readContentFile(nf.file)
		return content, true, err
	case nf.set["c"]:
		return nf.content, true, nil
	default:
		return "", false, nil
	}
}

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	nf, _, err := parseNoteFlags("add", args)
	if err != nil {
		return fmt.Errorf("%w. %s", err, addUsage)
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	c.printHeading("Add Note")

	title := nf.title
	if !nf.set["t"] {
		title, err = c.io.ReadInput("Title: ")
		if err != nil {
			return fmt.Errorf("failed to read title: %w", err)
		}
	}

	content, ok, err := nf.resolveContent()
	if err != nil {
		return err
	}
	if !ok {
		content, err = c.io.ReadInput("Content: ")
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
	}

	note, err := c.notes.CreateNote(ctx, token, pkgapi.NoteRequest{Title: title, Content: content})
	if err != nil {
		return explain(err, "")
	}

	c.io.Println()
	c.printSuccess("Note saved!")
	c.io.Printf("ID: %s\n", note.ID)

	return nil
}

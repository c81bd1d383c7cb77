package cli

import (
	"text/template"
	"time"
)

const noteTemplate = `
Title:   {{.Title}}
ID:      {{.ID}}
Version: {{.Version}}
Created: {{.CreatedAt | fmtTime}}
Updated: {{.UpdatedAt | fmtTime}}

---
{{.Content}}
---
`

var noteTmpl = template.Must(template.New("note").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.Local().Format(time.DateTime)
	},
}).Parse(noteTemplate))

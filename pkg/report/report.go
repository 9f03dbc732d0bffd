// Package report formats a resolved context for people: a markdown table
// rendered with glamour, or aligned plain text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"

	"github.com/ormasoftchile/cutter/pkg/schema"
)

// Markdown renders env as a two-column markdown table under a heading.
func Markdown(title string, env *schema.Object) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if env.Len() == 0 {
		b.WriteString("_No variables._\n")
		return b.String()
	}
	b.WriteString("| Variable | Value |\n|---|---|\n")
	_ = env.Each(func(name string, v schema.Value) error {
		fmt.Fprintf(&b, "| `%s` | %s |\n", escapeCell(name), escapeCell(display(v)))
		return nil
	})
	return b.String()
}

// Render converts markdown to styled terminal output, wrapping at width
// columns when width > 0.
func Render(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// Plain writes one "name  value" line per variable, names padded to a common
// display width.
func Plain(w io.Writer, env *schema.Object) error {
	width := 0
	for _, name := range env.Keys() {
		if n := runewidth.StringWidth(name); n > width {
			width = n
		}
	}
	return env.Each(func(name string, v schema.Value) error {
		_, err := fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(name, width), display(v))
		return err
	})
}

func display(v schema.Value) string {
	if v.Kind() == schema.String {
		return v.Str()
	}
	return v.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormasoftchile/cutter/pkg/prompt"
)

// Prompter asks each question in its own inline Bubble Tea program.
type Prompter struct {
	opts []tea.ProgramOption
}

// New creates a Prompter reading keys from in and drawing to out. Nil
// streams fall back to the terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	var opts []tea.ProgramOption
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return &Prompter{opts: opts}
}

func (p *Prompter) run(m tea.Model) (tea.Model, error) {
	final, err := tea.NewProgram(m, p.opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	return final, nil
}

// Text implements prompt.Prompter.
func (p *Prompter) Text(label, def string) (string, error) {
	final, err := p.run(newTextModel(label, def))
	if err != nil {
		return "", err
	}
	m := final.(*textModel)
	if m.aborted {
		return "", prompt.ErrAborted
	}
	return m.Value(), nil
}

// YesNo implements prompt.Prompter.
func (p *Prompter) YesNo(label string, def bool) (bool, error) {
	m := newYesNoModel(label, def)
	final, err := p.run(m)
	if err != nil {
		return false, err
	}
	m = final.(*choiceModel)
	if m.aborted {
		return false, prompt.ErrAborted
	}
	return m.Selected() == "yes", nil
}

// Choice implements prompt.Prompter.
func (p *Prompter) Choice(label string, options []prompt.Option, def string) (string, error) {
	final, err := p.run(newChoiceModel(label, options, def))
	if err != nil {
		return "", err
	}
	m := final.(*choiceModel)
	if m.aborted {
		return "", prompt.ErrAborted
	}
	return m.Selected(), nil
}

func newYesNoModel(label string, def bool) *choiceModel {
	d := "no"
	if def {
		d = "yes"
	}
	m := newChoiceModel(label, []prompt.Option{{Label: "yes", Text: "yes"}, {Label: "no", Text: "no"}}, d)
	m.shortcuts = map[string]int{"y": 0, "n": 1}
	return m
}

var _ prompt.Prompter = (*Prompter)(nil)

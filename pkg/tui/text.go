package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// textModel collects free text; an empty answer selects the default.
type textModel struct {
	title   string
	def     string
	input   textinput.Model
	done    bool
	aborted bool
}

func newTextModel(title, def string) *textModel {
	ti := textinput.New()
	ti.Placeholder = def
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()
	return &textModel{title: title, def: def, input: ti}
}

func (m *textModel) Init() tea.Cmd { return textinput.Blink }

func (m *textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			m.input.Blur()
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			m.input.Blur()
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Value returns the typed answer, or the default when nothing was typed.
func (m *textModel) Value() string {
	if v := m.input.Value(); v != "" {
		return v
	}
	return m.def
}

func (m *textModel) View() string {
	if m.aborted {
		return abortStyle.Render("✗ "+m.title) + "\n"
	}
	if m.done {
		return fmt.Sprintf("%s %s\n", questionTitle.Render(m.title+":"), answerStyle.Render(m.Value()))
	}
	var b strings.Builder
	b.WriteString(questionTitle.Render(m.title))
	if m.def != "" {
		b.WriteString(" " + defaultStyle.Render("["+m.def+"]"))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(keyHint("Enter", "accept", "Esc", "abort"))
	return b.String() + "\n"
}

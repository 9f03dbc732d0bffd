package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormasoftchile/cutter/pkg/prompt"
)

// choiceModel renders a selection list and records the chosen label.
type choiceModel struct {
	title   string
	options []prompt.Option
	// shortcuts maps extra keys to option indexes, e.g. y/n for yes/no.
	shortcuts map[string]int

	cursor  int
	chosen  bool
	aborted bool
	width   int
}

func newChoiceModel(title string, options []prompt.Option, def string) *choiceModel {
	m := &choiceModel{title: title, options: options}
	for i, o := range options {
		if o.Label == def {
			m.cursor = i
		}
	}
	return m
}

func (m *choiceModel) Init() tea.Cmd { return nil }

func (m *choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(key[0] - '1')
			if idx < len(m.options) {
				m.cursor = idx
				m.chosen = true
				return m, tea.Quit
			}
		default:
			if idx, ok := m.shortcuts[key]; ok {
				m.cursor = idx
				m.chosen = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// Selected returns the label under the cursor.
func (m *choiceModel) Selected() string {
	if m.cursor < len(m.options) {
		return m.options[m.cursor].Label
	}
	return ""
}

func (m *choiceModel) View() string {
	if m.aborted {
		return abortStyle.Render("✗ "+m.title) + "\n"
	}
	if m.chosen {
		return fmt.Sprintf("%s %s\n", questionTitle.Render(m.title+":"), answerStyle.Render(m.options[m.cursor].Text))
	}

	var b strings.Builder
	b.WriteString(questionTitle.Render("Select " + m.title))
	b.WriteString("\n\n")
	for i, opt := range m.options {
		prefix := "  "
		style := optionNormal
		if i == m.cursor {
			prefix = "> "
			style = optionCurrent
		}
		line := prefix + opt.Text
		if opt.Label != opt.Text {
			line = fmt.Sprintf("%s%s. %s", prefix, opt.Label, opt.Text)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(keyHint("↑↓", "select", "Enter", "choose", "1-9", "quick select", "Esc", "abort"))

	box := questionBorder
	if m.width > 4 {
		box = box.MaxWidth(m.width)
	}
	return box.Render(b.String()) + "\n"
}

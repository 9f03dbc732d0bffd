package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormasoftchile/cutter/pkg/prompt"
)

var licenses = []prompt.Option{
	{Label: "1", Text: "MIT"},
	{Label: "2", Text: "BSD"},
	{Label: "3", Text: "GPL"},
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestChoiceModel_Navigate(t *testing.T) {
	m := newChoiceModel("license", licenses, "1")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown}) // clamped
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil || !m.chosen {
		t.Fatal("enter should choose and quit")
	}
	if got := m.Selected(); got != "2" {
		t.Errorf("selected = %q, want 2", got)
	}
}

func TestChoiceModel_QuickSelect(t *testing.T) {
	m := newChoiceModel("license", licenses, "1")
	m.Update(keys("3"))
	if !m.chosen || m.Selected() != "3" {
		t.Errorf("chosen=%v selected=%q", m.chosen, m.Selected())
	}
}

func TestChoiceModel_QuickSelectOutOfRange(t *testing.T) {
	m := newChoiceModel("license", licenses, "1")
	m.Update(keys("9"))
	if m.chosen {
		t.Error("9 is not an option")
	}
}

func TestChoiceModel_DefaultCursor(t *testing.T) {
	m := newChoiceModel("license", licenses, "2")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != "2" {
		t.Errorf("selected = %q", m.Selected())
	}
}

func TestChoiceModel_Abort(t *testing.T) {
	m := newChoiceModel("license", licenses, "1")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.aborted {
		t.Error("esc should abort")
	}
}

func TestChoiceModel_View(t *testing.T) {
	m := newChoiceModel("license", licenses, "1")
	view := m.View()
	for _, want := range []string{"Select license", "MIT", "BSD", "GPL"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	m.Update(keys("2"))
	if !strings.Contains(m.View(), "BSD") {
		t.Errorf("final view = %q", m.View())
	}
}

func TestYesNoModel_Shortcuts(t *testing.T) {
	m := newYesNoModel("use_docker", true)
	if m.Selected() != "yes" {
		t.Errorf("default = %q", m.Selected())
	}
	m.Update(keys("n"))
	if !m.chosen || m.Selected() != "no" {
		t.Errorf("chosen=%v selected=%q", m.chosen, m.Selected())
	}
}

func TestYesNoModel_DefaultNo(t *testing.T) {
	m := newYesNoModel("use_docker", false)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != "no" {
		t.Errorf("selected = %q", m.Selected())
	}
}

func TestTextModel_Default(t *testing.T) {
	m := newTextModel("project", "demo")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.done || m.Value() != "demo" {
		t.Errorf("done=%v value=%q", m.done, m.Value())
	}
}

func TestTextModel_Typed(t *testing.T) {
	m := newTextModel("project", "demo")
	m.Update(keys("shop"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Value() != "shop" {
		t.Errorf("value = %q", m.Value())
	}
	if !strings.Contains(m.View(), "shop") {
		t.Errorf("view = %q", m.View())
	}
}

func TestTextModel_Abort(t *testing.T) {
	m := newTextModel("project", "demo")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.aborted {
		t.Error("ctrl+c should abort")
	}
}

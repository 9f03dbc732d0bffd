// Package tui implements prompt.Prompter with Bubble Tea: every question is a
// small inline program with a navigable menu or a text field.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
)

var (
	questionBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(0, 1)

	questionTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	optionCurrent = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	optionNormal = lipgloss.NewStyle().
			Foreground(colorWhite)

	defaultStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	answerStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	abortStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	keyDescStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

func keyHint(pairs ...string) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		if out != "" {
			out += "  "
		}
		out += keyStyle.Render(pairs[i]) + keyDescStyle.Render(":"+pairs[i+1])
	}
	return out
}

// Package prompt defines how the resolution engine asks an operator for
// values, with a readline-backed implementation for terminals and a scripted
// one for replaying canned answers.
package prompt

import (
	"errors"
	"strings"
)

// ErrAborted is returned when the operator interrupts a prompt or input ends.
var ErrAborted = errors.New("prompt aborted")

// Option is one entry of a numbered choice menu.
type Option struct {
	Label string // what the operator types, "1", "2", ...
	Text  string // what the option displays
}

// Prompter collects raw values from an operator. Empty input selects the
// default. Implementations re-prompt on input they cannot interpret.
type Prompter interface {
	// Text asks for free text.
	Text(label, def string) (string, error)
	// YesNo asks a yes/no question.
	YesNo(label string, def bool) (bool, error)
	// Choice asks for one of options and returns the chosen Label.
	Choice(label string, options []Option, def string) (string, error)
}

// ParseYesNo interprets the canonical truthy and falsy tokens,
// case-insensitively: 1/true/t/yes/y/on and 0/false/f/no/n/off.
func ParseYesNo(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, true
	case "0", "false", "f", "no", "n", "off":
		return false, true
	}
	return false, false
}

// FindOption returns the option with the given label.
func FindOption(options []Option, label string) (Option, bool) {
	for _, o := range options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

func labels(options []Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Label
	}
	return out
}

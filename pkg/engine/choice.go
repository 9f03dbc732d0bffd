package engine

import (
	"strconv"

	"github.com/ormasoftchile/cutter/pkg/prompt"
	"github.com/ormasoftchile/cutter/pkg/schema"
)

// ResolveChoice selects one of the rendered options of a choice variable.
// Non-interactively the first option wins; otherwise the operator picks from
// a 1-based menu defaulting to "1".
func ResolveChoice(p prompt.Prompter, key string, options schema.Value, interactive bool) (schema.Value, error) {
	if options.Kind() != schema.List {
		return schema.Value{}, &TypeError{Key: key, Want: schema.List, Got: options.Kind()}
	}
	items := options.List()
	if len(items) == 0 {
		return schema.Value{}, &ConfigError{Key: key, Reason: "choice variable needs at least one option"}
	}
	if !interactive {
		return items[0], nil
	}
	if p == nil {
		return schema.Value{}, ErrNoPrompter
	}

	menu := make([]prompt.Option, len(items))
	for i, item := range items {
		menu[i] = prompt.Option{Label: strconv.Itoa(i + 1), Text: item.Text()}
	}
	label, err := p.Choice(key, menu, "1")
	if err != nil {
		return schema.Value{}, err
	}
	idx, err := strconv.Atoi(label)
	if err != nil || idx < 1 || idx > len(items) {
		return schema.Value{}, &MalformedInputError{Key: key, Input: label, Reason: "not one of the choices", Err: err}
	}
	return items[idx-1], nil
}

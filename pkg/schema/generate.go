package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ormasoftchile/cutter/pkg/ctxlog"
)

// OverwriteError reports an overwrite for a choice variable that is not one
// of its options.
type OverwriteError struct {
	Key     string
	Value   Value
	Options []Value
}

func (e *OverwriteError) Error() string {
	opts := make([]string, len(e.Options))
	for i, o := range e.Options {
		opts[i] = o.Text()
	}
	return fmt.Sprintf("%s: %q is not one of the choices [%s]", e.Key, e.Value.Text(), strings.Join(opts, ", "))
}

// Generate loads the schema at path and applies the user's default context,
// then the caller's extra context. An invalid choice in the default context is
// logged and skipped; in the extra context it is an error.
func Generate(ctx context.Context, path string, defaults, extra *Object) (*Object, error) {
	vars, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if defaults.Len() > 0 {
		if err := ApplyOverwrites(vars, defaults); err != nil {
			var oe *OverwriteError
			if !errors.As(err, &oe) {
				return nil, err
			}
			ctxlog.FromContext(ctx).Warn("ignoring default context overwrite", "path", path, "error", err)
		}
	}
	if extra.Len() > 0 {
		if err := ApplyOverwrites(vars, extra); err != nil {
			return nil, fmt.Errorf("extra context: %w", err)
		}
	}
	return vars, nil
}

// ApplyOverwrites modifies vars in place with values from overwrites.
//
//   - keys absent from vars are ignored; a conditional key `name?guard` is
//     matched by its base name
//   - a choice variable moves the overwrite to the front of its options
//   - a mapping variable merges a mapping overwrite recursively
//   - any other variable is replaced
//
// Every valid overwrite is applied even when an earlier one fails; the first
// failure is returned.
func ApplyOverwrites(vars, overwrites *Object) error {
	var first error
	_ = overwrites.Each(func(name string, over Value) error {
		key, ok := matchKey(vars, name)
		if !ok {
			return nil
		}
		current, _ := vars.Get(key)
		switch {
		case current.Kind() == List:
			options := current.List()
			idx := indexOf(options, over)
			if idx < 0 {
				if first == nil {
					first = &OverwriteError{Key: name, Value: over, Options: options}
				}
				return nil
			}
			reordered := make([]Value, 0, len(options))
			reordered = append(reordered, options[idx])
			reordered = append(reordered, options[:idx]...)
			reordered = append(reordered, options[idx+1:]...)
			vars.Set(key, ListValue(reordered...))
		case current.Kind() == Map && over.Kind() == Map:
			merged := current.Object().Clone()
			if err := ApplyOverwrites(merged, over.Object()); err != nil && first == nil {
				first = fmt.Errorf("%s: %w", name, err)
			}
			vars.Set(key, MapValue(merged))
		default:
			vars.Set(key, over.Clone())
		}
		return nil
	})
	return first
}

func matchKey(vars *Object, name string) (string, bool) {
	if vars.Has(name) {
		return name, true
	}
	for _, key := range vars.Keys() {
		if base, _, ok := SplitConditional(key); ok && base == name {
			return key, true
		}
	}
	return "", false
}

// indexOf finds over among options. Scalars also match on their text, so a
// command-line "2" selects the numeric option 2.
func indexOf(options []Value, over Value) int {
	for i, opt := range options {
		if opt.Equal(over) {
			return i
		}
	}
	if over.Kind() == List || over.Kind() == Map {
		return -1
	}
	for i, opt := range options {
		if opt.Kind() != List && opt.Kind() != Map && opt.Text() == over.Text() {
			return i
		}
	}
	return -1
}

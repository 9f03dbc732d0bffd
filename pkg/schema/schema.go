// Package schema defines the variable schema of a template: an ordered mapping
// from variable name to raw definition, plus loading from JSON or YAML files.
package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContextKey frames the variables inside a schema document and inside a
// resolved context.
const ContextKey = "cookiecutter"

// FileNames are the schema file names looked up in a template directory, in order.
var FileNames = []string{"cookiecutter.json", "cookiecutter.yaml", "cookiecutter.yml"}

// ErrNoSchemaFile is returned when a template directory has no schema file.
var ErrNoSchemaFile = errors.New("no schema file found")

// IsPrivate reports whether key starts with exactly one underscore. Private
// variables are copied verbatim: never rendered, never prompted.
func IsPrivate(key string) bool {
	return strings.HasPrefix(key, "_") && !strings.HasPrefix(key, "__")
}

// IsHidden reports whether key starts with two underscores. Hidden variables
// are rendered but never prompted.
func IsHidden(key string) bool {
	return strings.HasPrefix(key, "__")
}

// IsConditional reports whether key carries a guard (`name?expression`).
func IsConditional(key string) bool {
	return strings.Contains(key, "?")
}

// SplitConditional splits `name?expression` into its two parts. ok is false
// unless key holds exactly one `?`.
func SplitConditional(key string) (base, expr string, ok bool) {
	parts := strings.Split(key, "?")
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// FindFile returns the path of the schema file inside a template directory.
func FindFile(dir string) (string, error) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNoSchemaFile, dir, strings.Join(FileNames, ", "))
}

// LoadFile reads a schema document and returns its variables. The format is
// chosen by extension: .yaml/.yml are YAML, anything else JSON.
func LoadFile(path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	vars, err := Load(f, ext == ".yaml" || ext == ".yml")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

// Load decodes a schema document from r. The document is either the variable
// mapping itself or an object whose ContextKey entry holds it.
func Load(r io.Reader, isYAML bool) (*Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var doc Value
	if isYAML {
		doc, err = ParseYAML(data)
	} else {
		doc, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return Variables(doc)
}

// Variables extracts the variable mapping from a decoded schema document.
func Variables(doc Value) (*Object, error) {
	if doc.Kind() != Map {
		return nil, fmt.Errorf("schema document must be an object, got %s", doc.Kind())
	}
	inner, ok := doc.Object().Get(ContextKey)
	if !ok {
		return doc.Object(), nil
	}
	if inner.Kind() != Map {
		return nil, fmt.Errorf("%q must be an object, got %s", ContextKey, inner.Kind())
	}
	return inner.Object(), nil
}

// ParseYAML decodes a single YAML document into a Value, keeping mapping order.
func ParseYAML(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Value{}, err
	}
	var v Value
	if node.Kind == 0 {
		return v, nil
	}
	if err := v.UnmarshalYAML(&node); err != nil {
		return Value{}, err
	}
	return v, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Mappings are decoded by the
// ordered map, which keeps key order.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			*v = NullValue()
			return nil
		}
		return v.UnmarshalYAML(node.Content[0])
	case yaml.AliasNode:
		return v.UnmarshalYAML(node.Alias)
	case yaml.MappingNode:
		obj := NewObject()
		if err := obj.UnmarshalYAML(node); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*v = MapValue(obj)
	case yaml.SequenceNode:
		var items []Value
		if err := node.Decode(&items); err != nil {
			return err
		}
		*v = ListValue(items...)
	case yaml.ScalarNode:
		parsed, err := fromScalar(node)
		if err != nil {
			return err
		}
		*v = parsed
	default:
		return fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
	return nil
}

func fromScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return NullValue(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return BoolValue(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return IntValue(n), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return FromInterface(f)
	default:
		return StringValue(node.Value), nil
	}
}

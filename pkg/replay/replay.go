// Package replay persists resolved contexts so that a later run can reproduce
// them without asking again. One JSON record per template, named after it.
package replay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ormasoftchile/cutter/pkg/schema"
)

// Suffix is appended to template names to form record file names.
const Suffix = ".json"

// TypeError reports an argument of the wrong shape.
type TypeError struct {
	What string
}

func (e *TypeError) Error() string { return "replay: " + e.What }

// NotFoundError reports a missing replay record.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("replay record %s not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// MissingKeyError reports a context without the framing key.
type MissingKeyError struct {
	Path string
}

func (e *MissingKeyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("context is missing the %q key", schema.ContextKey)
	}
	return fmt.Sprintf("replay record %s is missing the %q key", e.Path, schema.ContextKey)
}

// FileName returns the record file name for a template name.
func FileName(name string) string {
	if strings.HasSuffix(name, Suffix) {
		return name
	}
	return name + Suffix
}

// Path returns the record path for a template name inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, FileName(name))
}

// Save writes ctx as the record for name inside dir, creating dir as needed.
// ctx must be a mapping holding the context key. It returns the record path.
func Save(dir, name string, ctx schema.Value) (string, error) {
	if name == "" {
		return "", &TypeError{What: "template name must be a non-empty string"}
	}
	if ctx.Kind() != schema.Map {
		return "", &TypeError{What: fmt.Sprintf("context must be a mapping, got %s", ctx.Kind())}
	}
	if !ctx.Object().Has(schema.ContextKey) {
		return "", &MissingKeyError{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create replay dir: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ctx); err != nil {
		return "", fmt.Errorf("encode replay record: %w", err)
	}

	path := Path(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write replay record: %w", err)
	}
	return path, nil
}

// Load reads the record for name inside dir.
func Load(dir, name string) (*schema.Object, error) {
	if name == "" {
		return nil, &TypeError{What: "template name must be a non-empty string"}
	}
	return LoadFile(Path(dir, name))
}

// LoadFile reads a record from an explicit path.
func LoadFile(path string) (*schema.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("read replay record: %w", err)
	}
	v, err := schema.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse replay record %s: %w", path, err)
	}
	if v.Kind() != schema.Map {
		return nil, &TypeError{What: fmt.Sprintf("record %s must hold an object, got %s", path, v.Kind())}
	}
	if !v.Object().Has(schema.ContextKey) {
		return nil, &MissingKeyError{Path: path}
	}
	return v.Object(), nil
}

// Split derives the directory and template name of a record path, so that an
// explicit record file can be loaded and saved back in place.
func Split(path string) (dir, name string) {
	dir, file := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return filepath.Clean(dir), strings.TrimSuffix(file, Suffix)
}

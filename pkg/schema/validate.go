package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, keys
	Path     string `json:"path"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// HasErrors reports whether any entry has error severity.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == "error" {
			return true
		}
	}
	return false
}

// ValidateFile checks a template schema file: the document must match the
// template JSON Schema and every variable key must be well formed.
func ValidateFile(path string) (*Object, []*ValidationError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []*ValidationError{{Phase: "structural", Message: err.Error(), Severity: "error"}}
	}

	var doc Value
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		doc, err = ParseYAML(data)
	} else {
		doc, err = ParseJSON(data)
	}
	if err != nil {
		return nil, []*ValidationError{{Phase: "structural", Message: fmt.Sprintf("decode: %v", err), Severity: "error"}}
	}

	if errs := validateStructure(doc); len(errs) > 0 {
		return nil, errs
	}
	vars, err := Variables(doc)
	if err != nil {
		return nil, []*ValidationError{{Phase: "structural", Message: err.Error(), Severity: "error"}}
	}
	return vars, ValidateKeys(vars)
}

// ValidateKeys checks variable names: conditional keys need exactly one `?`
// and a non-empty base and guard. Names that collide after stripping guards
// are reported as warnings.
func ValidateKeys(vars *Object) []*ValidationError {
	var errs []*ValidationError
	seen := make(map[string]string)
	for _, key := range vars.Keys() {
		name := key
		switch {
		case (IsPrivate(key) || IsHidden(key)) && IsConditional(key):
			errs = append(errs, &ValidationError{Phase: "keys", Path: key, Message: "underscore variables are never prompted; the guard is part of the name", Severity: "warning"})
		case IsConditional(key):
			base, expr, ok := SplitConditional(key)
			if !ok {
				errs = append(errs, &ValidationError{Phase: "keys", Path: key, Message: "conditional key must contain exactly one '?'", Severity: "error"})
				continue
			}
			if base == "" || strings.TrimSpace(expr) == "" {
				errs = append(errs, &ValidationError{Phase: "keys", Path: key, Message: "conditional key needs a name and a guard expression", Severity: "error"})
				continue
			}
			name = base
		}
		if prev, dup := seen[name]; dup {
			errs = append(errs, &ValidationError{Phase: "keys", Path: key, Message: fmt.Sprintf("resolves to %q, already defined by %q; the first definition wins", name, prev), Severity: "warning"})
			continue
		}
		seen[name] = key
	}
	return errs
}

func validateStructure(doc Value) []*ValidationError {
	structural := func(msg string) []*ValidationError {
		return []*ValidationError{{Phase: "structural", Message: msg, Severity: "error"}}
	}

	schemaDoc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(TemplateJSONSchema()))
	if err != nil {
		return structural(fmt.Sprintf("unmarshal schema: %v", err))
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource("template-v1.json", schemaDoc); err != nil {
		return structural(fmt.Sprintf("add schema resource: %v", err))
	}
	sch, err := c.Compile("template-v1.json")
	if err != nil {
		return structural(fmt.Sprintf("compile schema: %v", err))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return structural(fmt.Sprintf("marshal for schema validation: %v", err))
	}
	inst, err := sjsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return structural(fmt.Sprintf("unmarshal document: %v", err))
	}

	if err := sch.Validate(inst); err != nil {
		var ve *sjsonschema.ValidationError
		if !errors.As(err, &ve) {
			return structural(err.Error())
		}
		var errs []*ValidationError
		for _, cause := range flattenValidationErrors(ve) {
			errs = append(errs, &ValidationError{
				Phase:    "structural",
				Path:     strings.Join(cause.InstanceLocation, "/"),
				Message:  fmt.Sprintf("%v", cause.ErrorKind),
				Severity: "error",
			})
		}
		return errs
	}
	return nil
}

func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

package engine

import (
	"errors"
	"fmt"

	"github.com/ormasoftchile/cutter/pkg/eval"
	"github.com/ormasoftchile/cutter/pkg/schema"
)

// DefaultMaxDepth bounds container nesting during rendering.
const DefaultMaxDepth = 64

// Renderer renders raw definitions against an environment. The zero value
// renders with literal reinterpretation and DefaultMaxDepth.
type Renderer struct {
	// MaxDepth bounds nesting; zero means DefaultMaxDepth.
	MaxDepth int
	// PlainText keeps every rendered scalar a string instead of reading
	// numbers, booleans, null and JSON containers back as typed values.
	PlainText bool
}

// Render renders raw against env:
//
//   - null and bool pass through
//   - lists render element by element, mappings render keys and values
//   - anything else is rendered as template text, then read back as a
//     literal when it looks like one
//
// The template scope is a snapshot of env taken once per call.
func (r Renderer) Render(raw schema.Value, env *schema.Object) (schema.Value, error) {
	return r.render(raw, Scope(env), 0)
}

// Scope builds the template scope for env: {"cookiecutter": env}. Null
// variables render as None and read back as null.
func Scope(env *schema.Object) map[string]any {
	return eval.TemplateScope(map[string]any{schema.ContextKey: env.Interface()})
}

func (r Renderer) render(raw schema.Value, scope map[string]any, depth int) (schema.Value, error) {
	limit := r.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if depth > limit {
		return schema.Value{}, fmt.Errorf("%w: more than %d levels", ErrMaxDepth, limit)
	}

	switch raw.Kind() {
	case schema.Null, schema.Bool:
		return raw, nil
	case schema.List:
		items := raw.List()
		out := make([]schema.Value, len(items))
		for i, item := range items {
			v, err := r.render(item, scope, depth+1)
			if err != nil {
				return schema.Value{}, err
			}
			out[i] = v
		}
		return schema.ListValue(out...), nil
	case schema.Map:
		out := schema.NewObject()
		err := raw.Object().Each(func(k string, v schema.Value) error {
			key, err := r.text(k, scope)
			if err != nil {
				return err
			}
			val, err := r.render(v, scope, depth+1)
			if err != nil {
				return err
			}
			out.Set(key, val)
			return nil
		})
		if err != nil {
			return schema.Value{}, err
		}
		return schema.MapValue(out), nil
	}

	text, err := r.text(raw.Text(), scope)
	if err != nil {
		return schema.Value{}, err
	}
	if !r.PlainText {
		if v, ok := eval.ParseLiteral(text); ok {
			return v, nil
		}
	}
	return schema.StringValue(text), nil
}

func (r Renderer) text(tmpl string, scope map[string]any) (string, error) {
	out, err := eval.Resolve(tmpl, scope)
	if err != nil {
		var ue *eval.UndefinedError
		if errors.As(err, &ue) {
			return "", &UndefinedVariableError{Name: ue.Name, Err: err}
		}
		return "", err
	}
	return out, nil
}

// Package eval implements Go text/template-style expression evaluation for
// variable defaults, and boolean guard evaluation with expr-lang.
package eval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/expr-lang/expr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UndefinedError reports a template reference to a variable that does not exist.
type UndefinedError struct {
	Name string
	Err  error
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("%q is undefined: %v", e.Name, e.Err)
}

func (e *UndefinedError) Unwrap() error { return e.Err }

// none stands for a null variable in a template scope. A nil *none prints as
// "None", which ParseLiteral reads back as null, and is false in conditions.
type none struct{}

func (*none) String() string { return "None" }

// None is the template scope representation of null.
var None any = (*none)(nil)

func isNone(v any) bool {
	n, ok := v.(*none)
	return ok && n == nil
}

// TemplateScope converts plain scope data for template rendering: nil values,
// nested ones included, become None so they never print as "<no value>".
func TemplateScope(vars map[string]any) map[string]any {
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = templateValue(v)
	}
	return out
}

func templateValue(v any) any {
	switch t := v.(type) {
	case nil:
		return None
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = templateValue(item)
		}
		return out
	case map[string]any:
		return TemplateScope(t)
	default:
		return v
	}
}

var missingKeyRe = regexp.MustCompile(`map has no entry for key "([^"]*)"`)

// Resolve evaluates a template string against a variable scope. References
// to missing keys fail with *UndefinedError. Scopes holding null values should
// go through TemplateScope first.
// Example: Resolve("{{ .cookiecutter.name }}-svc", {"cookiecutter": {"name": "api"}}) → "api-svc"
func Resolve(tmpl string, vars map[string]any) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil // fast path for literals
	}

	t, err := template.New("").Option("missingkey=error").Funcs(builtinFuncs()).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("template parse: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		if m := missingKeyRe.FindStringSubmatch(err.Error()); m != nil {
			return "", &UndefinedError{Name: m[1], Err: err}
		}
		return "", fmt.Errorf("template eval: %w", err)
	}
	return buf.String(), nil
}

// EvalGuard evaluates a guard expression and returns its textual result.
// Expressions containing "{{" are rendered as templates; anything else is an
// expr-lang expression whose result is formatted with fmt.Sprint, so a true
// guard yields exactly "true".
func EvalGuard(exprStr string, env map[string]any) (string, error) {
	if strings.Contains(exprStr, "{{") {
		return Resolve(exprStr, TemplateScope(env))
	}
	exprStr = strings.TrimSpace(exprStr)
	if exprStr == "" {
		return "", fmt.Errorf("empty guard expression")
	}
	program, err := expr.Compile(exprStr, expr.Env(env))
	if err != nil {
		return "", fmt.Errorf("compile guard %q: %w", exprStr, err)
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return "", fmt.Errorf("eval guard %q: %w", exprStr, err)
	}
	return fmt.Sprint(output), nil
}

// Native converts template scope data for expr-lang: json.Number becomes int
// when integral, float64 otherwise. Containers are converted recursively.
func Native(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Native(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Native(item)
		}
		return out
	default:
		return v
	}
}

// builtinFuncs provides template functions for expressions.
func builtinFuncs() template.FuncMap {
	title := cases.Title(language.Und)
	return template.FuncMap{
		"eq": func(a, b any) bool {
			return fmt.Sprint(a) == fmt.Sprint(b)
		},
		"ne": func(a, b any) bool {
			return fmt.Sprint(a) != fmt.Sprint(b)
		},
		"lower": func(s any) string {
			return strings.ToLower(fmt.Sprint(s))
		},
		"upper": func(s any) string {
			return strings.ToUpper(fmt.Sprint(s))
		},
		"title": func(s any) string {
			return title.String(fmt.Sprint(s))
		},
		"trim": func(s any) string {
			return strings.TrimSpace(fmt.Sprint(s))
		},
		"replace": func(old, new string, s any) string {
			return strings.ReplaceAll(fmt.Sprint(s), old, new)
		},
		"slugify": func(s any) string {
			return slugify(fmt.Sprint(s))
		},
		"contains": func(s, substr any) bool {
			return strings.Contains(fmt.Sprint(s), fmt.Sprint(substr))
		},
		"hasPrefix": func(s, prefix any) bool {
			return strings.HasPrefix(fmt.Sprint(s), fmt.Sprint(prefix))
		},
		"hasSuffix": func(s, suffix any) bool {
			return strings.HasSuffix(fmt.Sprint(s), fmt.Sprint(suffix))
		},
		"default": func(def, val any) any {
			if val == nil || isNone(val) || fmt.Sprint(val) == "" {
				return def
			}
			return val
		},
		"toJSON": func(v any) (string, error) {
			data, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

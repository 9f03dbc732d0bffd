package engine

import (
	"github.com/ormasoftchile/cutter/pkg/eval"
	"github.com/ormasoftchile/cutter/pkg/schema"
)

// Guard is a parsed conditional key `base?expr`.
type Guard struct {
	Key     string
	Base    string
	Expr    string
	Present bool
	// Failure is set when the guard could not be evaluated. Present is then
	// false, exactly as for a guard that evaluated to false.
	Failure *GuardEvalError
}

// GuardScope builds the guard environment from the raw schema: every variable
// at top level, plus the whole schema under the context key.
func GuardScope(vars *schema.Object) map[string]any {
	native, _ := eval.Native(vars.Interface()).(map[string]any)
	scope := make(map[string]any, len(native)+1)
	for k, v := range native {
		scope[k] = v
	}
	scope[schema.ContextKey] = native
	return scope
}

// ParseGuard splits key into its base name and guard, then evaluates the guard
// against scope. The guard holds only when it evaluates to exactly "true".
// A key without exactly one `?` is a *MalformedKeyError; an evaluation failure
// is reported on Guard.Failure.
func ParseGuard(scope map[string]any, key string) (Guard, error) {
	base, expr, ok := schema.SplitConditional(key)
	if !ok {
		return Guard{}, &MalformedKeyError{Key: key}
	}
	g := Guard{Key: key, Base: base, Expr: expr}
	out, err := eval.EvalGuard(expr, scope)
	if err != nil {
		g.Failure = &GuardEvalError{Key: key, Expr: expr, Err: err}
		return g, nil
	}
	g.Present = out == "true"
	return g, nil
}

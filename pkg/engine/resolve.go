// Package engine resolves a variable schema into a context: defaults are
// rendered against the variables resolved before them, guards decide which
// variables are asked, and an operator may answer through a prompt.Prompter.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ormasoftchile/cutter/pkg/ctxlog"
	"github.com/ormasoftchile/cutter/pkg/prompt"
	"github.com/ormasoftchile/cutter/pkg/schema"
	"github.com/ormasoftchile/cutter/pkg/trace"
)

// DefaultDictAttempts is how often a structured variable is asked before a
// malformed answer fails the run.
const DefaultDictAttempts = 3

// Options configure a Resolver.
type Options struct {
	// NoInput resolves every variable to its rendered default.
	NoInput bool
	// DictSentinel is the answer that keeps a structured default.
	DictSentinel string
	// PlainText disables literal reinterpretation of rendered text.
	PlainText bool
	// MaxDepth bounds nesting during rendering.
	MaxDepth int
	// DictAttempts bounds re-prompts after malformed structured input.
	DictAttempts int
}

// Result is the outcome of a resolution run.
type Result struct {
	// Env holds the resolved variables in schema order.
	Env *schema.Object
	// GuardFailures lists guards that failed to evaluate. Their variables
	// were resolved without prompting, as for a false guard.
	GuardFailures []*GuardEvalError
}

// Context wraps the environment as a resolved context.
func (r *Result) Context() *schema.Object {
	return Wrap(r.Env)
}

// Wrap frames env under the context key.
func Wrap(env *schema.Object) *schema.Object {
	ctx := schema.NewObject()
	ctx.Set(schema.ContextKey, schema.MapValue(env))
	return ctx
}

// Resolver runs the two-pass resolution over a schema.
type Resolver struct {
	prompter prompt.Prompter
	opts     Options
	renderer Renderer
	trace    *trace.Writer
}

// New creates a Resolver. p may be nil when opts.NoInput is set.
func New(p prompt.Prompter, opts Options) *Resolver {
	if opts.DictSentinel == "" {
		opts.DictSentinel = DefaultDictSentinel
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.DictAttempts <= 0 {
		opts.DictAttempts = DefaultDictAttempts
	}
	return &Resolver{
		prompter: p,
		opts:     opts,
		renderer: Renderer{MaxDepth: opts.MaxDepth, PlainText: opts.PlainText},
	}
}

// WithTrace records resolution events on tw.
func (r *Resolver) WithTrace(tw *trace.Writer) *Resolver {
	r.trace = tw
	return r
}

// run carries the state of one resolution.
type run struct {
	*Resolver
	log        *slog.Logger
	env        *schema.Object
	guardScope map[string]any
	failures   []*GuardEvalError
}

// Resolve resolves vars, a schema's variables in declaration order.
//
// Pass 1 copies private variables and handles every variable whose raw value
// is not a mapping; pass 2 then handles the mappings, so their templates can
// reference anything from pass 1 regardless of declaration order. Private `_x`
// variables are copied raw, hidden `__x` variables are rendered but never
// asked, and a `name?guard` variable is only asked when its guard holds. A
// name is set once: a later definition of the same name is ignored.
//
// Any rendering failure aborts the run; there is no partial result.
func (r *Resolver) Resolve(ctx context.Context, vars *schema.Object) (*Result, error) {
	if !r.opts.NoInput && r.prompter == nil {
		return nil, ErrNoPrompter
	}
	start := time.Now()
	st := &run{
		Resolver:   r,
		log:        ctxlog.FromContext(ctx),
		env:        schema.NewObject(),
		guardScope: GuardScope(vars),
	}
	r.trace.EmitResolveStart(vars.Len(), !r.opts.NoInput)

	if err := vars.Each(st.firstPass); err != nil {
		return nil, err
	}
	if err := vars.Each(st.secondPass); err != nil {
		return nil, err
	}

	r.trace.EmitResolveComplete(st.env.Len(), len(st.failures), time.Since(start))
	st.log.Debug("context resolved", "variables", st.env.Len(), "guard_failures", len(st.failures))
	return &Result{Env: st.env, GuardFailures: st.failures}, nil
}

func (st *run) firstPass(key string, raw schema.Value) error {
	if schema.IsPrivate(key) {
		st.assign(key, key, raw.Clone(), 1, trace.SourcePrivate)
		return nil
	}
	if raw.Kind() == schema.Map {
		return nil
	}

	rendered, err := st.render(key, raw)
	if err != nil {
		return err
	}
	if schema.IsHidden(key) {
		st.assign(key, key, rendered, 1, trace.SourceRendered)
		return nil
	}

	name, interactive, err := st.presentation(key)
	if err != nil {
		return err
	}

	var val schema.Value
	switch rendered.Kind() {
	case schema.List:
		val, err = ResolveChoice(st.prompter, name, rendered, interactive)
	case schema.Bool:
		val = rendered
		if interactive {
			val, err = ReadBool(st.prompter, name, rendered.Bool())
		}
	case schema.Map:
		// text that rendered to a JSON object
		val, err = st.dict(name, rendered, interactive)
	default:
		val = rendered
		if interactive {
			val, err = ReadScalar(st.prompter, name, rendered)
		}
	}
	if err != nil {
		return err
	}
	st.assign(key, name, val, 1, source(interactive))
	return nil
}

func (st *run) secondPass(key string, raw schema.Value) error {
	if raw.Kind() != schema.Map || schema.IsPrivate(key) {
		return nil
	}

	name, interactive := key, false
	if !schema.IsHidden(key) {
		var err error
		if name, interactive, err = st.presentation(key); err != nil {
			return err
		}
	}

	rendered, err := st.render(key, raw)
	if err != nil {
		return err
	}
	val, err := st.dict(name, rendered, interactive)
	if err != nil {
		return err
	}
	st.assign(key, name, val, 2, source(interactive))
	return nil
}

// presentation returns the variable name for key and whether to ask for it.
func (st *run) presentation(key string) (string, bool, error) {
	interactive := !st.opts.NoInput
	if !schema.IsConditional(key) {
		return key, interactive, nil
	}
	g, err := ParseGuard(st.guardScope, key)
	if err != nil {
		return "", false, err
	}
	if g.Failure != nil {
		st.failures = append(st.failures, g.Failure)
		st.trace.EmitGuardFailed(key, g.Expr, g.Failure.Err)
		st.log.Warn("guard evaluation failed, variable not asked", "key", key, "guard", g.Expr, "error", g.Failure.Err)
		return g.Base, false, nil
	}
	st.trace.EmitGuardEvaluated(key, g.Expr, g.Present)
	st.log.Debug("guard evaluated", "key", key, "present", g.Present)
	return g.Base, interactive && g.Present, nil
}

// dict resolves a structured variable, asking again after malformed input.
func (st *run) dict(name string, rendered schema.Value, interactive bool) (schema.Value, error) {
	if !interactive {
		return rendered, nil
	}
	var err error
	for attempt := 1; attempt <= st.opts.DictAttempts; attempt++ {
		var val schema.Value
		val, err = ReadDict(st.prompter, name, rendered, st.opts.DictSentinel)
		if err == nil {
			return val, nil
		}
		var mi *MalformedInputError
		if !errors.As(err, &mi) {
			return schema.Value{}, err
		}
		st.log.Warn("invalid structured input", "name", name, "attempt", attempt, "error", err)
	}
	return schema.Value{}, err
}

func (st *run) render(key string, raw schema.Value) (schema.Value, error) {
	v, err := st.renderer.Render(raw, st.env)
	if err != nil {
		var ue *UndefinedVariableError
		if errors.As(err, &ue) {
			ue.Key = key
			return schema.Value{}, ue
		}
		return schema.Value{}, fmt.Errorf("unable to render variable %q: %w", key, err)
	}
	return v, nil
}

func (st *run) assign(key, name string, val schema.Value, pass int, src trace.Source) {
	if st.env.Has(name) {
		st.trace.EmitDuplicateKey(key, name)
		st.log.Warn("variable already resolved, keeping first value", "key", key, "name", name)
		return
	}
	st.env.Set(name, val)
	st.trace.EmitVariableResolved(name, pass, val.Kind().String(), src)
	st.log.Debug("variable resolved", "name", name, "pass", pass, "source", src)
}

func source(interactive bool) trace.Source {
	if interactive {
		return trace.SourcePrompt
	}
	return trace.SourceRendered
}

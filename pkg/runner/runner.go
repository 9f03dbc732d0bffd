// Package runner drives one cutter invocation: either load a replay record,
// or build the schema from a template directory, resolve it and record the
// result for replay.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ormasoftchile/cutter/pkg/config"
	"github.com/ormasoftchile/cutter/pkg/ctxlog"
	"github.com/ormasoftchile/cutter/pkg/engine"
	"github.com/ormasoftchile/cutter/pkg/prompt"
	"github.com/ormasoftchile/cutter/pkg/replay"
	"github.com/ormasoftchile/cutter/pkg/schema"
	"github.com/ormasoftchile/cutter/pkg/trace"
)

// Framing metadata added to every resolved environment.
const (
	TemplateKey  = "_template"
	RepoDirKey   = "_repo_dir"
	OutputDirKey = "_output_dir"
)

// ErrInvalidMode is returned when replay is combined with options that only
// make sense for a fresh resolution.
var ErrInvalidMode = errors.New("replay cannot be combined with no-input or extra context")

// Request describes one invocation.
type Request struct {
	TemplateDir  string
	NoInput      bool
	ExtraContext *schema.Object
	// Replay loads the record of the template instead of resolving.
	Replay bool
	// ReplayFile loads an explicit record instead of resolving.
	ReplayFile string
	OutputDir  string
	// SkipSave resolves without writing a replay record.
	SkipSave bool

	Config   *config.Config
	Prompter prompt.Prompter
	Options  engine.Options
	Trace    *trace.Writer
}

// Outcome is the result of an invocation.
type Outcome struct {
	Template string
	// Context is the resolved context, framed under the context key.
	Context       *schema.Object
	ReplayPath    string
	Replayed      bool
	GuardFailures []*engine.GuardEvalError
}

// Env returns the resolved variables.
func (o *Outcome) Env() *schema.Object {
	v, _ := o.Context.Get(schema.ContextKey)
	return v.Object()
}

// TemplateName derives the template identity from its directory.
func TemplateName(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("template dir: %w", err)
	}
	return filepath.Base(abs), nil
}

// Run executes req.
func Run(ctx context.Context, req Request) (*Outcome, error) {
	log := ctxlog.FromContext(ctx)
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
		cfg.ReplayDir = config.ExpandHome(cfg.ReplayDir)
	}

	if req.Replay || req.ReplayFile != "" {
		if req.NoInput || req.ExtraContext.Len() > 0 {
			return nil, ErrInvalidMode
		}
		return load(ctx, req, cfg)
	}

	name, err := TemplateName(req.TemplateDir)
	if err != nil {
		return nil, err
	}
	path, err := schema.FindFile(req.TemplateDir)
	if err != nil {
		return nil, err
	}
	defaults, err := cfg.DefaultContextObject()
	if err != nil {
		return nil, err
	}
	vars, err := schema.Generate(ctx, path, defaults, req.ExtraContext)
	if err != nil {
		return nil, err
	}

	opts := req.Options
	opts.NoInput = opts.NoInput || req.NoInput || cfg.NoInput
	log.Info("resolving template", "template", name, "schema", path, "no_input", opts.NoInput)

	res, err := engine.New(req.Prompter, opts).WithTrace(req.Trace).Resolve(ctx, vars)
	if err != nil {
		return nil, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if outputDir, err = filepath.Abs(outputDir); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	repoDir, err := filepath.Abs(req.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	res.Env.Set(TemplateKey, schema.StringValue(req.TemplateDir))
	res.Env.Set(RepoDirKey, schema.StringValue(repoDir))
	res.Env.Set(OutputDirKey, schema.StringValue(outputDir))

	out := &Outcome{
		Template:      name,
		Context:       res.Context(),
		GuardFailures: res.GuardFailures,
	}
	if req.SkipSave {
		return out, nil
	}
	out.ReplayPath, err = replay.Save(cfg.ReplayDir, name, schema.MapValue(out.Context))
	if err != nil {
		return nil, err
	}
	req.Trace.EmitReplaySaved(name, out.ReplayPath)
	log.Debug("replay saved", "path", out.ReplayPath)
	return out, nil
}

func load(ctx context.Context, req Request, cfg *config.Config) (*Outcome, error) {
	var (
		name, path string
		record     *schema.Object
		err        error
	)
	if req.ReplayFile != "" {
		_, name = replay.Split(req.ReplayFile)
		path = req.ReplayFile
		record, err = replay.LoadFile(path)
	} else {
		if name, err = TemplateName(req.TemplateDir); err != nil {
			return nil, err
		}
		path = replay.Path(cfg.ReplayDir, name)
		record, err = replay.Load(cfg.ReplayDir, name)
	}
	if err != nil {
		return nil, err
	}
	req.Trace.EmitReplayLoaded(name, path)
	ctxlog.FromContext(ctx).Info("replaying context", "template", name, "record", path)
	return &Outcome{Template: name, Context: record, ReplayPath: path, Replayed: true}, nil
}

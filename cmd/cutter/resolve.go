package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ormasoftchile/cutter/pkg/engine"
	"github.com/ormasoftchile/cutter/pkg/prompt"
	"github.com/ormasoftchile/cutter/pkg/runner"
	"github.com/ormasoftchile/cutter/pkg/schema"
	"github.com/ormasoftchile/cutter/pkg/trace"
	"github.com/ormasoftchile/cutter/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	resolveNoInput      bool
	resolveReplay       bool
	resolveReplayFile   string
	resolveOutputDir    string
	resolveTUI          bool
	resolveTrace        string
	resolvePrint        bool
	resolveNoSave       bool
	resolvePlainText    bool
	resolveDictSentinel string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <template-dir> [key=value ...]",
	Short: "Resolve the variables of a template",
	Long: `Resolve reads the template's cookiecutter.json (or .yaml), applies the
default context from the user config and any key=value overrides, then
renders every default and prompts for the rest. The answers are saved so a
later --replay can reuse them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	extra, err := parseExtraContext(args[1:])
	if err != nil {
		return err
	}

	req := runner.Request{
		TemplateDir:  args[0],
		NoInput:      resolveNoInput,
		ExtraContext: extra,
		Replay:       resolveReplay,
		ReplayFile:   resolveReplayFile,
		OutputDir:    resolveOutputDir,
		SkipSave:     resolveNoSave,
		Config:       cfg,
		Options: engine.Options{
			DictSentinel: resolveDictSentinel,
			PlainText:    resolvePlainText,
		},
	}

	interactive := !(resolveNoInput || cfg.NoInput || resolveReplay || resolveReplayFile != "")
	if interactive {
		p, closeFn, err := newPrompter(resolveTUI)
		if err != nil {
			return err
		}
		defer closeFn()
		req.Prompter = p
	}

	if resolveTrace != "" {
		tw, err := trace.NewFileWriter(resolveTrace, trace.NewRunID())
		if err != nil {
			return fmt.Errorf("open trace: %w", err)
		}
		defer tw.Close()
		req.Trace = tw
	}

	out, err := runner.Run(ctx, req)
	if errors.Is(err, prompt.ErrAborted) {
		fmt.Fprintln(os.Stderr, "Aborted.")
		return err
	}
	if err != nil {
		return err
	}

	for _, gf := range out.GuardFailures {
		fmt.Fprintf(os.Stderr, "  ⚠ [guard] %v\n", gf)
	}
	if resolvePrint {
		return printContext(out.Context)
	}
	switch {
	case out.Replayed:
		fmt.Printf("✓ %s replayed from %s (%d variables)\n", out.Template, out.ReplayPath, out.Env().Len())
	case out.ReplayPath != "":
		fmt.Printf("✓ %s resolved (%d variables), answers saved to %s\n", out.Template, out.Env().Len(), out.ReplayPath)
	default:
		fmt.Printf("✓ %s resolved (%d variables)\n", out.Template, out.Env().Len())
	}
	return nil
}

// Overridden in tests.
var (
	stdin      io.Reader = os.Stdin
	prompts    io.Writer = os.Stderr
	isTerminal           = prompt.IsTerminal
)

// newPrompter picks the terminal UI or the line prompter. Piped input is read
// line by line without readline. The returned func releases the terminal.
func newPrompter(useTUI bool) (prompt.Prompter, func(), error) {
	if !isTerminal() {
		return prompt.NewLineFrom(stdin, prompts), func() {}, nil
	}
	if useTUI {
		return tui.New(nil, nil), func() {}, nil
	}
	l, err := prompt.NewLine()
	if err != nil {
		return nil, nil, fmt.Errorf("open terminal: %w", err)
	}
	return l, func() { l.Close() }, nil
}

// parseExtraContext turns key=value arguments into an ordered overwrite
// mapping. Later duplicates replace earlier ones.
func parseExtraContext(args []string) (*schema.Object, error) {
	extra := schema.NewObject()
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid extra context %q: expected key=value", arg)
		}
		extra.Set(parts[0], schema.StringValue(parts[1]))
	}
	return extra, nil
}

func printContext(ctx *schema.Object) error {
	data, err := ctx.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	buf.WriteByte('\n')
	_, err = os.Stdout.Write(buf.Bytes())
	return err
}

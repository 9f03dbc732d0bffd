package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/cutter/pkg/config"
	"github.com/ormasoftchile/cutter/pkg/prompt"
	"github.com/ormasoftchile/cutter/pkg/replay"
	"github.com/ormasoftchile/cutter/pkg/runner"
	"github.com/ormasoftchile/cutter/pkg/schema"
)

// Handlers serves the tools that need the user configuration.
type Handlers struct {
	Config *config.Config
}

func (h *Handlers) config() *config.Config {
	if h.Config != nil {
		return h.Config
	}
	cfg := config.Default()
	cfg.ReplayDir = config.ExpandHome(cfg.ReplayDir)
	return cfg
}

// HandleResolve implements the cutter/resolve MCP tool.
func (h *Handlers) HandleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	dir, _ := args["template_dir"].(string)
	if dir == "" {
		return errorResult("template_dir argument is required"), nil
	}

	extra := schema.NewObject()
	if raw, ok := args["extra_context"].(map[string]any); ok {
		v, err := schema.FromInterface(raw)
		if err != nil {
			return errorResult(fmt.Sprintf("extra_context: %v", err)), nil
		}
		extra = v.Object()
	}

	rreq := runner.Request{
		TemplateDir:  dir,
		ExtraContext: extra,
		OutputDir:    stringArg(args, "output_dir"),
		Config:       h.config(),
		NoInput:      true,
	}
	if answers, ok := args["answers"].([]any); ok && len(answers) > 0 {
		texts := make([]string, 0, len(answers))
		for _, a := range answers {
			texts = append(texts, fmt.Sprint(a))
		}
		rreq.NoInput = false
		rreq.Prompter = prompt.NewScripted(texts...)
	}
	save, _ := args["save_replay"].(bool)
	rreq.SkipSave = !save

	out, err := runner.Run(ctx, rreq)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	result := map[string]any{
		"template": out.Template,
		"context":  out.Context,
	}
	if out.ReplayPath != "" {
		result["replay_path"] = out.ReplayPath
	}
	if len(out.GuardFailures) > 0 {
		failures := make([]string, len(out.GuardFailures))
		for i, f := range out.GuardFailures {
			failures[i] = f.Error()
		}
		result["guard_failures"] = failures
	}
	return jsonResult(result)
}

// HandleReplay implements the cutter/replay MCP tool.
func (h *Handlers) HandleReplay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if path := stringArg(args, "path"); path != "" {
		record, err := replay.LoadFile(path)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(record)
	}

	template := stringArg(args, "template")
	if template == "" {
		return errorResult("template or path argument is required"), nil
	}
	name := filepath.Base(filepath.Clean(template))
	record, err := replay.Load(h.config().ReplayDir, name)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(record)
}

// HandleValidate implements the cutter/validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := stringArg(req.GetArguments(), "path")
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		found, err := schema.FindFile(path)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		path = found
	}

	vars, errs := schema.ValidateFile(path)
	if schema.HasErrors(errs) {
		return errorResult(formatErrors(errs, "error")), nil
	}
	msg := fmt.Sprintf("✓ %s is valid (%d variables)", path, vars.Len())
	if warnings := formatErrors(errs, "warning"); warnings != "" {
		msg += "\nwarnings: " + warnings
	}
	return textResult(msg), nil
}

// HandleSchema implements the cutter/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch schemaType := stringArg(req.GetArguments(), "type"); schemaType {
	case "template":
		return textResult(string(schema.TemplateJSONSchema())), nil
	case "config":
		data, err := config.GenerateJSONSchema()
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(string(data)), nil
	default:
		return errorResult(fmt.Sprintf("unknown schema type %q, use 'template' or 'config'", schemaType)), nil
	}
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func formatErrors(errs []*schema.ValidationError, severity string) string {
	var msgs []string
	for _, e := range errs {
		if e.Severity == severity {
			msgs = append(msgs, fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message))
		}
	}
	return strings.Join(msgs, "; ")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ormasoftchile/cutter/pkg/config"
)

// NewServer creates a new MCP server with cutter tools registered.
func NewServer(version string, cfg *config.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"cutter",
		version,
		server.WithToolCapabilities(true),
	)
	h := &Handlers{Config: cfg}

	s.AddTool(
		mcp.NewTool("cutter/resolve",
			mcp.WithDescription("Resolve the variables of a template directory into a context. Without answers every variable takes its rendered default."),
			mcp.WithString("template_dir", mcp.Required(), mcp.Description("Directory holding cookiecutter.json or cookiecutter.yaml")),
			mcp.WithObject("extra_context", mcp.Description("Overwrites applied to the schema before resolution")),
			mcp.WithArray("answers", mcp.Description("Answers to the questions in order; an empty string keeps the default"), mcp.WithStringItems()),
			mcp.WithString("output_dir", mcp.Description("Recorded as _output_dir (default: current directory)")),
			mcp.WithBoolean("save_replay", mcp.Description("Write a replay record for the template (default: false)")),
		),
		h.HandleResolve,
	)

	s.AddTool(
		mcp.NewTool("cutter/replay",
			mcp.WithDescription("Load the replay record of a template"),
			mcp.WithString("template", mcp.Description("Template name or directory")),
			mcp.WithString("path", mcp.Description("Explicit replay record file (overrides template)")),
		),
		h.HandleReplay,
	)

	s.AddTool(
		mcp.NewTool("cutter/validate",
			mcp.WithDescription("Validate a template schema file or template directory"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Schema file or template directory")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("cutter/schema",
			mcp.WithDescription("Export cutter JSON Schema (template or config)"),
			mcp.WithString("type", mcp.Required(), mcp.Description("Schema type: 'template' or 'config'")),
		),
		HandleSchema,
	)

	return s
}

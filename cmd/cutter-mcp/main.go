// Package main provides the cutter-mcp binary: an MCP server exposing template
// resolution to AI agents over stdio.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ormasoftchile/cutter/pkg/config"
	cmcp "github.com/ormasoftchile/cutter/pkg/ecosystem/mcp"
)

var version = "dev"

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s := cmcp.NewServer(version, cfg)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

//go:build ignore

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ormasoftchile/cutter/pkg/config"
	"github.com/ormasoftchile/cutter/pkg/schema"
)

func main() {
	if err := os.MkdirAll("schemas", 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}

	cfgData, err := config.GenerateJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating config schema: %v\n", err)
		os.Exit(1)
	}
	write(filepath.Join("schemas", "config-v1.json"), cfgData)
	write(filepath.Join("schemas", "template-v1.json"), schema.TemplateJSONSchema())
}

func write(path string, data []byte) {
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote", path)
}

package main

import (
	"fmt"
	"os"

	"github.com/ormasoftchile/cutter/pkg/config"
	"github.com/ormasoftchile/cutter/pkg/replay"
	"github.com/ormasoftchile/cutter/pkg/report"
	"github.com/ormasoftchile/cutter/pkg/schema"
	"github.com/spf13/cobra"
)

// --- show ---

var showPlain bool

var showCmd = &cobra.Command{
	Use:   "show <template-name>",
	Short: "Show the answers recorded for a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	record, err := replay.Load(cfg.ReplayDir, args[0])
	if err != nil {
		return err
	}
	v, _ := record.Get(schema.ContextKey)
	env := v.Object()

	if showPlain {
		return report.Plain(os.Stdout, env)
	}
	out, err := report.Render(report.Markdown(args[0], env), 100)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Print(out)
	return nil
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate <template-dir|schema-file>",
	Short: "Validate a template variable schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if path, err = schema.FindFile(path); err != nil {
			return err
		}
	}

	vars, errs := schema.ValidateFile(path)
	var errors, warnings []*schema.ValidationError
	for _, e := range errs {
		if e.Severity == "warning" {
			warnings = append(warnings, e)
		} else {
			errors = append(errors, e)
		}
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  ⚠ [%s] %s\n", w.Phase, w.Message)
		if w.Path != "" {
			fmt.Fprintf(os.Stderr, "    at: %s\n", w.Path)
		}
	}
	if len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "Validation failed: %d error(s)\n\n", len(errors))
		for i, e := range errors {
			fmt.Fprintf(os.Stderr, "  %d. [%s] %s\n", i+1, e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(os.Stderr, "     at: %s\n", e.Path)
			}
		}
		return fmt.Errorf("validation failed with %d error(s)", len(errors))
	}
	fmt.Printf("✓ %s is valid (%d variables)\n", path, vars.Len())
	return nil
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:       "schema <config|template>",
	Short:     "Print the JSON Schema for the user config or template schema files",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"config", "template"},
	RunE:      runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	var data []byte
	switch args[0] {
	case "config":
		var err error
		if data, err = config.GenerateJSONSchema(); err != nil {
			return fmt.Errorf("generate schema: %w", err)
		}
	case "template":
		data = schema.TemplateJSONSchema()
	}
	fmt.Println(string(data))
	return nil
}

// Package main provides the cutter binary: resolve the variables of a project
// template, replay earlier answers, and validate schemas.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ormasoftchile/cutter/pkg/config"
	"github.com/ormasoftchile/cutter/pkg/ctxlog"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

var (
	configPath string
	logLevel   string
)

func main() {
	loadDotEnv() // CUTTER_* settings may live in a local .env
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadDotEnv reads a .env file from the working directory and sets
// any variables that aren't already set in the environment.
// Lines are KEY=VALUE (or KEY="VALUE"). Comments (#) and blanks are skipped.
func loadDotEnv() {
	f, err := os.Open(".env")
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:          "cutter",
	Short:        "Resolve project template variables",
	Long:         "cutter reads a template's variable schema, renders defaults, asks for what it cannot infer, and records the answers for replay.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(logLevel)
		if err != nil {
			return err
		}
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		return nil
	},
}

// newLogger builds the stderr logger for a --log-level value.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// loadConfig reads the user configuration named by --config, or the default
// location when the flag is empty.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cutter %s (build: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the user config file (default $CUTTER_CONFIG or ~/.cutterrc)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, or error")

	// resolve flags
	resolveCmd.Flags().BoolVar(&resolveNoInput, "no-input", false, "Never prompt; use rendered defaults")
	resolveCmd.Flags().BoolVar(&resolveReplay, "replay", false, "Reuse the answers recorded for this template")
	resolveCmd.Flags().StringVar(&resolveReplayFile, "replay-file", "", "Reuse the answers recorded in this file")
	resolveCmd.Flags().StringVar(&resolveOutputDir, "output-dir", ".", "Directory the project would be generated into")
	resolveCmd.Flags().BoolVar(&resolveTUI, "tui", false, "Prompt with the full-screen terminal UI")
	resolveCmd.Flags().StringVar(&resolveTrace, "trace", "", "Append JSONL trace events to this file")
	resolveCmd.Flags().BoolVar(&resolvePrint, "print", false, "Print the resolved context as JSON")
	resolveCmd.Flags().BoolVar(&resolveNoSave, "no-save", false, "Do not write a replay record")
	resolveCmd.Flags().BoolVar(&resolvePlainText, "plain-text", false, "Keep rendered defaults as text instead of reading literals")
	resolveCmd.Flags().StringVar(&resolveDictSentinel, "dict-default", "", "Answer that keeps a dictionary default (default \"default\")")

	// show flags
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Print aligned plain text instead of Markdown")

	// root subcommands
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

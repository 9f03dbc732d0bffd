package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cutterrc")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(PathEnv, filepath.Join(home, "absent"))

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" {
		t.Errorf("path = %q, want empty", cfg.Path)
	}
	if cfg.ReplayDir != filepath.Join(home, ".cutter_replay") {
		t.Errorf("replay dir = %q", cfg.ReplayDir)
	}
}

func TestLoad_ExplicitMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("explicit config path must exist")
	}
}

func TestLoad_File(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, `
replay_dir: ~/replays
default_context:
  full_name: Ada
  license: MIT
  year: 2024
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != path {
		t.Errorf("path = %q", cfg.Path)
	}
	if cfg.ReplayDir != filepath.Join(home, "replays") {
		t.Errorf("replay dir = %q", cfg.ReplayDir)
	}
	want := map[string]any{"full_name": "Ada", "license": "MIT", "year": 2024}
	if diff := cmp.Diff(want, cfg.DefaultContext); diff != "" {
		t.Errorf("default context (-want +got):\n%s", diff)
	}

	obj, err := cfg.DefaultContextObject()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"full_name", "license", "year"}, obj.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NoInput || len(cfg.DefaultContext) != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "replay_dirr: /tmp\n"))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestLoad_WrongTypeRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "no_input: maybe\n"))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Path != "no_input" {
		t.Errorf("path = %q", ve.Path)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CUTTER_REPLAY_DIR", dir)
	t.Setenv("CUTTER_NO_INPUT", "true")

	cfg, err := Load(writeConfig(t, "replay_dir: /elsewhere\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ReplayDir != dir {
		t.Errorf("replay dir = %q, want %q", cfg.ReplayDir, dir)
	}
	if !cfg.NoInput {
		t.Error("no_input should come from env")
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("CUTTER_NO_INPUT", "not-a-bool")
	err := ParseEnv(&Config{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/ada")
	tests := map[string]string{
		"~":         "/home/ada",
		"~/replays": "/home/ada/replays",
		"/abs":      "/abs",
		"~other":    "~other",
	}
	for in, want := range tests {
		if got := ExpandHome(in); got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateJSONSchema(t *testing.T) {
	data, err := GenerateJSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"replay_dir"`, `"default_context"`, `"no_input"`, schemaID} {
		if !strings.Contains(string(data), want) {
			t.Errorf("schema missing %s", want)
		}
	}
}

// Package config loads the user configuration: a YAML file (~/.cutterrc by
// default) checked against the JSON Schema reflected from Config, with
// environment variable overrides.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/ormasoftchile/cutter/pkg/schema"
)

const (
	// FileName is the default config file name in the home directory.
	FileName = ".cutterrc"
	// PathEnv overrides the config file location.
	PathEnv = "CUTTER_CONFIG"
	// DefaultReplayDir is used when no replay_dir is configured.
	DefaultReplayDir = "~/.cutter_replay"

	schemaID = "https://github.com/ormasoftchile/cutter/schemas/config-v1.json"
)

// Config is the user configuration.
type Config struct {
	ReplayDir      string         `yaml:"replay_dir,omitempty"      json:"replay_dir,omitempty"      env:"CUTTER_REPLAY_DIR" jsonschema_description:"Directory holding replay records"`
	NoInput        bool           `yaml:"no_input,omitempty"        json:"no_input,omitempty"        env:"CUTTER_NO_INPUT"   jsonschema_description:"Never prompt and use rendered defaults"`
	DefaultContext map[string]any `yaml:"default_context,omitempty" json:"default_context,omitempty" jsonschema_description:"Overwrites applied to every template schema"`

	// Path is the file the config was read from, empty when none existed.
	Path string `yaml:"-" json:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{ReplayDir: DefaultReplayDir}
}

// DefaultPath returns the config path from CUTTER_CONFIG, or ~/.cutterrc.
func DefaultPath() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads the config at path. An empty path means DefaultPath, in which
// case a missing file yields the defaults; an explicit path must exist.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg.Path = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.ReplayDir == "" {
		cfg.ReplayDir = DefaultReplayDir
	}
	cfg.ReplayDir = ExpandHome(cfg.ReplayDir)
	return cfg, nil
}

// Parse validates YAML config data against the config schema and decodes it
// into cfg.
func Parse(data []byte, cfg *Config) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		return nil
	}
	if err := validate(doc); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// ParseEnv loads overrides from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DefaultContextObject converts the default context for schema overwrites.
// Keys are sorted since YAML mappings decode unordered.
func (c *Config) DefaultContextObject() (*schema.Object, error) {
	if len(c.DefaultContext) == 0 {
		return schema.NewObject(), nil
	}
	v, err := schema.FromInterface(c.DefaultContext)
	if err != nil {
		return nil, fmt.Errorf("default_context: %w", err)
	}
	return v.Object(), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document from the
// Config struct using invopop/jsonschema.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Config{})
	s.ID = schemaID
	s.Title = "cutter user configuration v1"
	s.Description = "Schema for the cutter user config file (~/.cutterrc)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal config schema: %w", err)
	}
	return data, nil
}

// ValidationError reports a config document that does not match the schema.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "invalid config: " + e.Message
	}
	return fmt.Sprintf("invalid config at /%s: %s", e.Path, e.Message)
}

func validate(doc any) error {
	data, err := GenerateJSONSchema()
	if err != nil {
		return err
	}
	schemaDoc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("unmarshal config schema: %w", err)
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource(schemaID, schemaDoc); err != nil {
		return fmt.Errorf("add config schema: %w", err)
	}
	sch, err := c.Compile(schemaID)
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	// round-trip through JSON so YAML scalars take JSON types
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config for validation: %w", err)
	}
	inst, err := sjsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("unmarshal config for validation: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		var ve *sjsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		leaf := firstLeaf(ve)
		return &ValidationError{
			Path:    strings.Join(leaf.InstanceLocation, "/"),
			Message: fmt.Sprintf("%v", leaf.ErrorKind),
		}
	}
	return nil
}

func firstLeaf(ve *sjsonschema.ValidationError) *sjsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

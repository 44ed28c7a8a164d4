// Package config provides configuration loading and validation for the
// schemats command.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/reoring/schemats/internal/digest"
	"github.com/reoring/schemats/internal/refs"
)

// Config is the root configuration structure.
type Config struct {
	// InputFile is a glob (doublestar syntax) of schema files.
	InputFile string `yaml:"input_file"`
	OutputDir string `yaml:"output_dir"`

	Strict   bool  `yaml:"strict"`
	MaskNull bool  `yaml:"mask_null"`
	Emit     *bool `yaml:"emit"` // nil means true

	Base                string   `yaml:"base"`
	Import              []string `yaml:"import"` // URI^location pairs
	ImportHashAlgorithm string   `yaml:"import_hash_algorithm"`
	ImportHashLength    int      `yaml:"import_hash_length"`

	// QED is written to stdout after each processed file.
	QED             string `yaml:"qed"`
	ContinueOnError bool   `yaml:"continue_on_error"`
	LogLevel        string `yaml:"log_level"`
	MetricsTextfile string `yaml:"metrics_textfile,omitempty"`
	Watch           bool   `yaml:"watch"`
}

// ShouldEmit reports whether generated modules are written to disk.
func (c *Config) ShouldEmit() bool { return c.Emit == nil || *c.Emit }

// Load reads a YAML configuration file, expands environment variables in
// it, applies SCHEMATS_* overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	SetDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// FromEnv builds a configuration from SCHEMATS_* variables and defaults only.
// It is not validated; callers usually apply flags first.
func FromEnv() *Config {
	var cfg Config
	applyEnvOverrides(&cfg)
	SetDefaults(&cfg)
	return &cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCHEMATS_INPUT_FILE"); v != "" {
		cfg.InputFile = v
	}
	if v := os.Getenv("SCHEMATS_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("SCHEMATS_STRICT"); v != "" {
		cfg.Strict = parseBool(v)
	}
	if v := os.Getenv("SCHEMATS_MASK_NULL"); v != "" {
		cfg.MaskNull = parseBool(v)
	}
	if v := os.Getenv("SCHEMATS_EMIT"); v != "" {
		emit := parseBool(v)
		cfg.Emit = &emit
	}
	if v := os.Getenv("SCHEMATS_BASE"); v != "" {
		cfg.Base = v
	}
	if v := os.Getenv("SCHEMATS_IMPORT"); v != "" {
		cfg.Import = strings.Fields(v)
	}
	if v := os.Getenv("SCHEMATS_IMPORT_HASH_ALGORITHM"); v != "" {
		cfg.ImportHashAlgorithm = v
	}
	if v := os.Getenv("SCHEMATS_IMPORT_HASH_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ImportHashLength = n
		}
	}
	if v := os.Getenv("SCHEMATS_CONTINUE_ON_ERROR"); v != "" {
		cfg.ContinueOnError = parseBool(v)
	}
	if v := os.Getenv("SCHEMATS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SCHEMATS_METRICS_TEXTFILE"); v != "" {
		cfg.MetricsTextfile = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// SetDefaults fills unset fields.
func SetDefaults(cfg *Config) {
	if cfg.ImportHashAlgorithm == "" {
		cfg.ImportHashAlgorithm = "sha256"
	}
	if cfg.QED == "" {
		cfg.QED = "."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
}

// Validate checks a configuration after defaults and overrides are applied.
func Validate(cfg *Config) error {
	if cfg.InputFile == "" {
		return fmt.Errorf("input_file is required")
	}
	if cfg.OutputDir == "" && cfg.ShouldEmit() {
		return fmt.Errorf("output_dir is required unless emit is false")
	}
	if cfg.ImportHashLength < 0 {
		return fmt.Errorf("import_hash_length must not be negative, got %d", cfg.ImportHashLength)
	}
	if !digest.Supported(cfg.ImportHashAlgorithm) {
		return fmt.Errorf("import_hash_algorithm must be one of: %s", strings.Join(digest.Algorithms(), ", "))
	}
	if _, err := refs.ParseMappings(cfg.Import); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

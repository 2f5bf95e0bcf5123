// Package config loads minic settings from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/minic/ll1"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "MINIC_CONFIG"

// DefaultPaths are tried in order by LoadDefault when EnvVar is unset.
var DefaultPaths = []string{"./minic.toml", "./minic.yaml", "./minic.yml"}

var ErrUnknownFormat = errors.New("unknown config format")

// Config holds the settings shared by the minic commands.
type Config struct {
	Grammar    string    `toml:"grammar" yaml:"grammar"`
	Extensions []string  `toml:"extensions" yaml:"extensions"`
	Dir        string    `toml:"dir" yaml:"dir"`
	Timeout    Duration  `toml:"timeout" yaml:"timeout"`
	Format     string    `toml:"format" yaml:"format"`
	Log        LogConfig `toml:"log" yaml:"log"`

	path string
}

// LogConfig controls the commonlog backend.
type LogConfig struct {
	// Verbosity is passed to commonlog.Configure; -1 silences logging.
	Verbosity int `toml:"verbosity" yaml:"verbosity"`
	// File receives log output; empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// Format is the syntax of a config file.
type Format int

const (
	FormatTOML Format = iota + 1
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// DetectFormat picks the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML or YAML file, fills in defaults and validates the result.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// LoadDefault loads the file named by MINIC_CONFIG, or else the first of
// DefaultPaths that exists. With neither it returns Default().
func LoadDefault() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// Parse decodes config text of the given format.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyDefaults() {
	if c.Grammar == "" {
		c.Grammar = ll1.Extended.String()
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".c", ".txt"}
	}
	if c.Dir == "" {
		c.Dir = "test_to_parse"
	}
	if c.Timeout.Duration == 0 {
		c.Timeout.Duration = 10 * time.Second
	}
	if c.Format == "" {
		c.Format = "table"
	}
}

// Formats lists the report formats the classify command can write.
var Formats = []string{"table", "json", "yaml"}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := ll1.ParseGrammar(c.Grammar); err != nil {
		errs = append(errs, fmt.Errorf("grammar: %w", err))
	}
	if c.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("timeout: must not be negative, got %s", c.Timeout))
	}
	known := false
	for _, f := range Formats {
		if c.Format == f {
			known = true
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("format: %q is not one of %s", c.Format, strings.Join(Formats, ", ")))
	}
	for _, ext := range c.Extensions {
		if strings.TrimPrefix(ext, ".") == "" {
			errs = append(errs, fmt.Errorf("extensions: empty extension"))
		}
	}
	if c.Log.Verbosity < -1 {
		errs = append(errs, fmt.Errorf("log.verbosity: must be -1 or more, got %d", c.Log.Verbosity))
	}
	return errors.Join(errs...)
}

// GrammarValue returns the configured grammar. It is only meaningful after
// Validate succeeded.
func (c *Config) GrammarValue() ll1.Grammar {
	g, _ := ll1.ParseGrammar(c.Grammar)
	return g
}

// Encode writes the config in the given format.
func (c *Config) Encode(format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return buf.Bytes(), nil
}

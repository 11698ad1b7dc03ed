// Package config loads the simple CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/thomasrohde/simple/go/pkg/formatter"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = ".simple.yaml"

// Config holds CLI settings. Command-line flags override file values.
type Config struct {
	Format      string `yaml:"format"`
	Color       bool   `yaml:"color"`
	StepNumbers bool   `yaml:"step_numbers"`
	MaxSteps    int    `yaml:"max_steps"`
	LogLevel    string `yaml:"log_level"`
	Timeout     string `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:   string(formatter.StyleText),
		Color:    true,
		LogLevel: "warn",
		Timeout:  "30s",
	}
}

// Load reads path over the defaults. A missing DefaultPath is not an
// error; a missing explicitly named file is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := formatter.ParseStyle(c.Format); err != nil {
		return err
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// Style returns the trace style. It assumes Validate passed.
func (c Config) Style() formatter.Style {
	st, _ := formatter.ParseStyle(c.Format)
	return st
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// TimeoutDuration parses Timeout. An empty value or zero means no timeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", c.Timeout)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return d, nil
}

// Write stores c at path, creating or truncating the file.
func (c Config) Write(path string) error {
	if path == "" {
		path = DefaultPath
	}
	d, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

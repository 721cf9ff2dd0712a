// Package config loads the inspector settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a configuration that decoded but failed validation.
var ErrInvalid = errors.New("invalid config")

// Config is the full settings tree.
type Config struct {
	Log       Log       `yaml:"log"`
	Eval      Eval      `yaml:"eval"`
	Collision Collision `yaml:"collision"`
	Mesh      Mesh      `yaml:"mesh"`
	Window    Window    `yaml:"window"`
}

// Log configures the zap logger.
type Log struct {
	Level    string   `yaml:"level"`
	Encoding string   `yaml:"encoding"`
	Output   []string `yaml:"output"`
}

// Eval bounds script evaluation.
type Eval struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Collision tunes the pair checker.
type Collision struct {
	// Workers caps concurrent pair tests. Zero or less means one per CPU.
	Workers int `yaml:"workers"`
	// Prefilter skips pairs whose world bounds do not overlap.
	Prefilter bool `yaml:"prefilter"`
}

// Mesh sets the marching cubes resolution for collider previews.
type Mesh struct {
	Cells int `yaml:"cells"`
}

// Window is the desktop window geometry.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

var levels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Log: Log{
			Level:    "info",
			Encoding: "json",
			Output:   []string{"stderr"},
		},
		Eval:      Eval{Timeout: 5 * time.Second},
		Collision: Collision{Workers: 0, Prefilter: false},
		Mesh:      Mesh{Cells: 48},
		Window:    Window{Title: "Intersects", Width: 1024, Height: 768},
	}
}

// Load decodes YAML from r over the defaults and validates the result. An
// empty document yields the defaults.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and decodes the file at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem found, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var err error
	invalid := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !levels[c.Log.Level] {
		invalid("log.level %q", c.Log.Level)
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		invalid("log.encoding %q (want json or console)", c.Log.Encoding)
	}
	if len(c.Log.Output) == 0 {
		invalid("log.output is empty")
	}
	if c.Eval.Timeout <= 0 {
		invalid("eval.timeout must be positive, got %s", c.Eval.Timeout)
	}
	if c.Mesh.Cells < 4 {
		invalid("mesh.cells must be at least 4, got %d", c.Mesh.Cells)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return err
}

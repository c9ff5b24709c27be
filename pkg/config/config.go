// Package config handles gobf.toml run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "gobf.toml"

// DefaultMaxCells is the tape cap used by the front-ends (2^29 cells).
const DefaultMaxCells = 1 << 29

// Config is the full run configuration.
type Config struct {
	Tape    Tape    `toml:"tape"`
	Run     Run     `toml:"run"`
	Log     Log     `toml:"log"`
	Desktop Desktop `toml:"desktop"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// Tape configures the machine's memory.
type Tape struct {
	MaxCells int `toml:"max-cells"`
}

// Run configures how the console runner drives the machine.
type Run struct {
	StepsPerSlice uint64 `toml:"steps-per-slice"`
	HaltMessage   bool   `toml:"halt-message"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Desktop configures the tape viewer window.
type Desktop struct {
	StepsPerFrame uint64 `toml:"steps-per-frame"`
	Columns       int    `toml:"columns"`
	Rows          int    `toml:"rows"`
	Scale         int    `toml:"scale"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Tape: Tape{MaxCells: DefaultMaxCells},
		Desktop: Desktop{
			StepsPerFrame: 2000,
			Columns:       32,
			Rows:          16,
			Scale:         16,
		},
	}
}

// Load reads the TOML file at path on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir looking for gobf.toml and loads the
// first one found. It returns Default when there is none.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate rejects values no front-end can work with.
func (c *Config) Validate() error {
	if c.Tape.MaxCells < 0 {
		return fmt.Errorf("tape.max-cells must not be negative, got %d", c.Tape.MaxCells)
	}
	if c.Desktop.Columns <= 0 || c.Desktop.Rows <= 0 {
		return fmt.Errorf("desktop.columns and desktop.rows must be positive")
	}
	if c.Desktop.Scale < 3 {
		return fmt.Errorf("desktop.scale must be at least 3, got %d", c.Desktop.Scale)
	}
	return nil
}

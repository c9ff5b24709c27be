package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Tape.MaxCells != 1<<29 {
		t.Errorf("MaxCells: expected %d, got %d", 1<<29, c.Tape.MaxCells)
	}
	if c.Run.StepsPerSlice != 0 {
		t.Errorf("StepsPerSlice: expected 0, got %d", c.Run.StepsPerSlice)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Default().Validate(): %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
[tape]
max-cells = 30000

[run]
steps-per-slice = 500
halt-message = true

[log]
verbosity = 2
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Tape.MaxCells != 30000 {
		t.Errorf("MaxCells: expected 30000, got %d", c.Tape.MaxCells)
	}
	if c.Run.StepsPerSlice != 500 || !c.Run.HaltMessage {
		t.Errorf("Run: got %+v", c.Run)
	}
	if c.Log.Verbosity != 2 {
		t.Errorf("Verbosity: expected 2, got %d", c.Log.Verbosity)
	}
	// Untouched sections keep their defaults.
	if c.Desktop.Columns != 32 {
		t.Errorf("Desktop.Columns: expected 32, got %d", c.Desktop.Columns)
	}
	if c.Path != path {
		t.Errorf("Path: expected %s, got %s", path, c.Path)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "[tape]\nmax-cells = -1\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "max-cells") {
		t.Errorf("expected max-cells error, got %v", err)
	}

	path = writeFile(t, t.TempDir(), "[desktop]\nscale = 1\n")
	if _, err := Load(path); err == nil {
		t.Errorf("expected scale error")
	}
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "[tape\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "[run]\nsteps-per-slice = 42\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if c.Run.StepsPerSlice != 42 {
		t.Errorf("StepsPerSlice: expected 42, got %d", c.Run.StepsPerSlice)
	}
}

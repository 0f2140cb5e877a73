package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the demo settings, merged from flags and weft.toml.
type Config struct {
	Debug   bool
	LogFile string

	// Rows is the number of generated list rows.
	Rows int
	// PopupHeight caps the combo box popup, in lines.
	PopupHeight int
}

// FileConfig is the on-disk shape of a weft.toml file.
type FileConfig struct {
	Demo struct {
		Rows        int `toml:"rows,omitempty"`
		PopupHeight int `toml:"popup_height,omitempty"`
	} `toml:"demo"`
}

// apply folds file settings into the config. Flags win.
func (c *Config) apply(fc *FileConfig) {
	if c.Rows == 0 {
		c.Rows = fc.Demo.Rows
	}
	if c.PopupHeight == 0 {
		c.PopupHeight = fc.Demo.PopupHeight
	}
}

func (c *Config) defaults() {
	if c.Rows <= 0 {
		c.Rows = 200
	}
	if c.PopupHeight <= 0 {
		c.PopupHeight = 6
	}
}

// LoadConfig parses a weft.toml file at the given path.
func LoadConfig(path string) (*FileConfig, error) {
	var config FileConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &config, nil
}

// FindConfig searches for a weft.toml starting from dir and walking up to
// parent directories. Returns ("", nil, nil) when none is found.
func FindConfig(dir string) (string, *FileConfig, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, "weft.toml")
		if _, err := os.Stat(path); err == nil {
			config, err := LoadConfig(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		// Stop at .git boundary
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

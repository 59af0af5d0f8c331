// Package config loads REPL and CLI settings from a .sigil.toml file.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// Config holds user-tunable session settings.
type Config struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
	Color       bool   `toml:"color"`
	LogLevel    string `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Prompt:      "> ",
		HistoryFile: filepath.Join(home, ".sigil_history"),
		Color:       true,
		LogLevel:    "warn",
	}
}

// Load reads path from fs on top of the defaults. A missing file is not an
// error; a malformed one is.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Discover looks for .sigil.toml in the working directory, then the home
// directory, and loads the first hit.
func Discover(fs afero.Fs) (Config, error) {
	if wd, err := os.Getwd(); err == nil {
		path := filepath.Join(wd, ".sigil.toml")
		if ok, _ := afero.Exists(fs, path); ok {
			return Load(fs, path)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".sigil.toml")
		if ok, _ := afero.Exists(fs, path); ok {
			return Load(fs, path)
		}
	}
	return Default(), nil
}

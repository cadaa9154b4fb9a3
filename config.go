package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const defaultConfigFile = "goforth.toml"

// config is the optional goforth.toml file; command line flags override it.
type config struct {
	REPL replConfig `toml:"repl"`
	VM   vmConfig   `toml:"vm"`
	Load loadConfig `toml:"load"`
}

type replConfig struct {
	Prompt  string `toml:"prompt"`
	History string `toml:"history"`
}

type vmConfig struct {
	DepthLimit *int `toml:"depth_limit"`
	CellLimit  uint `toml:"cell_limit"`
	Trace      bool `toml:"trace"`
}

type loadConfig struct {
	Files []string `toml:"files"`
}

func defaultConfig() config {
	return config{
		REPL: replConfig{Prompt: "> "},
	}
}

// readConfig loads the named file over defaults. A missing file is only an
// error when required; relative load paths resolve against the file's
// directory.
func readConfig(path string, required bool) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, name := range cfg.Load.Files {
		if !filepath.IsAbs(name) {
			cfg.Load.Files[i] = filepath.Join(dir, name)
		}
	}
	return cfg, nil
}

// options returns the VM options the file asks for.
func (cfg config) options() []VMOption {
	var opts []VMOption
	if lim := cfg.VM.DepthLimit; lim != nil {
		opts = append(opts, WithDepthLimit(*lim))
	}
	if lim := cfg.VM.CellLimit; lim != 0 {
		opts = append(opts, WithCellLimit(lim))
	}
	return opts
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up in the working directory when no
// explicit path is given.
const FileName = "surfacediff.toml"

// DefaultOutput is the report file written when no output is configured.
const DefaultOutput = "SpecMismatches.txt"

// Config holds the settings shared by the compare and snapshot commands.
type Config struct {
	Markers        []string  `toml:"markers"`
	IndexerName    string    `toml:"indexer_name"`
	ReferenceLabel string    `toml:"reference_label"`
	CandidateLabel string    `toml:"candidate_label"`
	Format         string    `toml:"format"`
	Output         string    `toml:"output"`
	Jobs           int       `toml:"jobs"`
	RenameHints    bool      `toml:"rename_hints"`
	FailOnDiff     bool      `toml:"fail_on_diff"`
	Log            LogConfig `toml:"log"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads the config file at path. When path is empty, FileName in the
// working directory is used if present; a missing default file is not an
// error. Defaults are applied to the result.
func Load(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file; defaults only.
	default:
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills in zero-valued settings.
func (c *Config) ApplyDefaults() {
	if c.CandidateLabel == "" {
		c.CandidateLabel = "Candidate"
	}
	if c.ReferenceLabel == "" {
		c.ReferenceLabel = "Reference"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

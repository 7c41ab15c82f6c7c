// Package config handles maptool configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all maptool settings.
type Config struct {
	Rotate  RotateConfig  `koanf:"rotate" yaml:"rotate"`
	Logging LoggingConfig `koanf:"logging" yaml:"logging"`

	// File is the config file the values were loaded from, if any.
	File string `koanf:"-" yaml:"-"`
}

// RotateConfig holds settings for the rotate-tiles command.
type RotateConfig struct {
	Extension string `koanf:"extension" yaml:"extension"`   // map file extension when scanning directories
	Workers   int    `koanf:"workers" yaml:"workers"`       // files processed concurrently
	KeepGoing bool   `koanf:"keep_going" yaml:"keep_going"` // log per-file errors instead of aborting
	DryRun    bool   `koanf:"dry_run" yaml:"dry_run"`       // report changes without writing
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `koanf:"level" yaml:"level"`
	LogFile string `koanf:"log_file" yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Rotate: RotateConfig{
			Extension: ".yml",
			Workers:   1,
			KeepGoing: false,
			DryRun:    false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Rotate.Workers < 1 {
		errs = append(errs, fmt.Errorf("rotate.workers must be at least 1, got %d", c.Rotate.Workers))
	}
	if !strings.HasPrefix(c.Rotate.Extension, ".") {
		errs = append(errs, fmt.Errorf("rotate.extension must start with '.', got %q", c.Rotate.Extension))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}

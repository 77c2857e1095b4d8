package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCompiler(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCompiler() error {
	if err := ValidateStage(c.Compiler.Stage); err != nil {
		return fmt.Errorf("compiler.stage: %w", err)
	}
	if err := ValidateStoryVersion(c.Compiler.StoryVersion); err != nil {
		return fmt.Errorf("compiler.story_version: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ValidateStage reports whether stage names a known development stage.
func ValidateStage(stage string) error {
	switch stage {
	case StageRelease, StageDevelopment:
		return nil
	case "":
		return errors.New("must be set")
	default:
		return fmt.Errorf("unsupported value %q (use %s or %s)", stage, StageRelease, StageDevelopment)
	}
}

// ValidateStoryVersion reports whether version is a Z-machine version the
// Inform 6 compiler can target.
func ValidateStoryVersion(version int) error {
	if version < 3 || version > 8 {
		return fmt.Errorf("must be between 3 and 8, got %d", version)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeCompiler(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeCompiler() error {
	var err error
	c.Compiler.Binary = strings.TrimSpace(c.Compiler.Binary)
	if c.Compiler.Binary == "" {
		if value, ok := os.LookupEnv("INFORM_BIN"); ok {
			c.Compiler.Binary = strings.TrimSpace(value)
		}
	}
	// Bare names are left for $PATH lookup.
	if strings.ContainsAny(c.Compiler.Binary, `/\`) || strings.HasPrefix(c.Compiler.Binary, "~") {
		if c.Compiler.Binary, err = expandPath(c.Compiler.Binary); err != nil {
			return fmt.Errorf("compiler.binary: %w", err)
		}
	}
	if c.Compiler.TempDir, err = expandPath(strings.TrimSpace(c.Compiler.TempDir)); err != nil {
		return fmt.Errorf("compiler.temp_dir: %w", err)
	}
	paths := make([]string, 0, len(c.Compiler.LibraryPaths))
	for _, p := range c.Compiler.LibraryPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		expanded, err := expandPath(p)
		if err != nil {
			return fmt.Errorf("compiler.library_paths: %w", err)
		}
		paths = append(paths, expanded)
	}
	c.Compiler.LibraryPaths = paths
	c.Compiler.Stage = strings.ToLower(strings.TrimSpace(c.Compiler.Stage))
	if c.Compiler.Stage == "" {
		c.Compiler.Stage = defaultStage
	}
	c.Compiler.Language = strings.TrimSpace(c.Compiler.Language)
	if c.Compiler.Language == "" {
		c.Compiler.Language = defaultLanguage
	}
	if c.Compiler.StoryVersion == 0 {
		c.Compiler.StoryVersion = defaultStoryVersion
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	var err error
	if c.Output.Directory, err = expandPath(strings.TrimSpace(c.Output.Directory)); err != nil {
		return fmt.Errorf("output.directory: %w", err)
	}
	c.Output.Prefix = strings.TrimSpace(c.Output.Prefix)
	c.Output.Suffix = strings.TrimSpace(c.Output.Suffix)
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

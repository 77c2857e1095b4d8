package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"informcompile/internal/config"
	"informcompile/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbosity  *int

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string, verbosity *int) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbosity:  verbosity,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) verbosityLevel() int {
	if c.verbosity == nil {
		return 0
	}
	return *c.verbosity
}

// newLogger builds the run logger. -v flags win over logging.level.
func (c *commandContext) newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  logging.LevelForVerbosity(c.verbosityLevel(), cfg.Logging.Level),
		Format: cfg.Logging.Format,
		Writer: w,
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

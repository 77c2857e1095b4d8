package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"informcompile/internal/config"
	"informcompile/internal/language"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if err := config.CreateSample(target, overwrite); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return fmt.Errorf("%w (use --overwrite to replace it)", err)
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set compiler.binary and compiler.temp_dir (or pass --informbin and --tmpdir) before compiling.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		return config.ExpandPath(target)
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return path, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			source := ctx.configPath
			if !ctx.configExists {
				source += " (not found, using defaults)"
			}
			fmt.Fprintf(out, "Config: %s\n", source)
			fmt.Fprintln(out, renderTable([]column{left("Setting"), left("Value")}, effectiveSettings(cfg)))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func effectiveSettings(cfg *config.Config) [][]string {
	informName, _ := language.Resolve(cfg.Compiler.Language)
	history := "disabled"
	if cfg.History.Enabled {
		history = cfg.History.Path
	}
	return [][]string{
		{"compiler.binary", valueOrUnset(cfg.Compiler.Binary)},
		{"compiler.temp_dir", valueOrUnset(cfg.Compiler.TempDir)},
		{"compiler.stage", cfg.Compiler.Stage},
		{"compiler.story_version", strconv.Itoa(cfg.Compiler.StoryVersion)},
		{"compiler.language", fmt.Sprintf("%s (%s)", cfg.Compiler.Language, informName)},
		{"compiler.library_paths", valueOrUnset(strings.Join(cfg.Compiler.LibraryPaths, ","))},
		{"output.directory", valueOr(cfg.Output.Directory, "source directory")},
		{"output.write_js", yesNo(cfg.Output.WriteJS)},
		{"output.link_latest", yesNo(cfg.Output.LinkLatest)},
		{"history", history},
		{"logging", cfg.Logging.Format + "/" + cfg.Logging.Level},
	}
}

func valueOrUnset(v string) string { return valueOr(v, "(unset)") }

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

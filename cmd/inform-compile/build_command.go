package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"informcompile/internal/build"
	"informcompile/internal/compiler"
	"informcompile/internal/config"
	"informcompile/internal/history"
	"informcompile/internal/logging"
	"informcompile/internal/preflight"
)

type buildFlags struct {
	informBin    string
	tmpDir       string
	devStage     string
	dev          bool
	release      bool
	language     string
	libraryPaths string
	unicode      bool
	outDir       string
	prefix       string
	suffix       string
	noSuffix     bool
	storyVersion int
	writeJS      bool
	force        bool
	linkLatest   bool
	summary      bool
	noHistory    bool
}

func registerBuildFlags(cmd *cobra.Command, f *buildFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.informBin, "informbin", "", "Inform binary to use for compilation")
	fs.StringVar(&f.tmpDir, "tmpdir", "", "Path to directory for temporary files (holds inform-compile.lock while a run is active)")
	fs.StringVar(&f.devStage, "devstage", config.StageRelease, "Software development stage (development, release)")
	fs.BoolVarP(&f.dev, "dev", "d", false, "Short option for setting --devstage=development")
	fs.BoolVar(&f.release, "release", false, "Short option for setting --devstage=release")
	fs.StringVar(&f.language, "language", "English", "Language of source code: English, Danish or da, or the full name of another Inform translation (German, French, ...)")
	fs.StringVar(&f.libraryPaths, "librarypaths", "", "Library path(s), comma-separated")
	fs.BoolVarP(&f.unicode, "unicode", "u", false, "Source file is in unicode encoding")
	fs.StringVar(&f.outDir, "outdirectory", "", "Output directory for story files (default is same as source file)")
	fs.StringVar(&f.prefix, "storyfileprefix", "", "Prefix for story files")
	fs.StringVar(&f.suffix, "storyfilesuffix", "", "Suffix for story files (default is _release_serial)")
	fs.BoolVarP(&f.noSuffix, "nostorysuffix", "n", false, "Set suffix to empty string")
	fs.IntVar(&f.storyVersion, "storyfileversion", compiler.DefaultStoryVersion, "Version of story file")
	fs.BoolVar(&f.writeJS, "writejs", false, "Also write javascript version (Base64 encoded)")
	fs.BoolVarP(&f.force, "force", "f", false, "Force overwriting of story files")
	fs.BoolVar(&f.linkLatest, "linklatest", false, "Point <name>.z<N> at the newest build")
	fs.BoolVar(&f.summary, "summary", false, "Print a table of outcomes after the run")
	fs.BoolVar(&f.noHistory, "no-history", false, "Do not record builds in the history database")
}

// applyBuildFlags overlays explicitly set flags onto cfg and revalidates it.
func applyBuildFlags(cmd *cobra.Command, f *buildFlags, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	var err error

	if changed("informbin") {
		cfg.Compiler.Binary = strings.TrimSpace(f.informBin)
		if strings.ContainsAny(cfg.Compiler.Binary, `/\`) || strings.HasPrefix(cfg.Compiler.Binary, "~") {
			if cfg.Compiler.Binary, err = config.ExpandPath(cfg.Compiler.Binary); err != nil {
				return fmt.Errorf("--informbin: %w", err)
			}
		}
	}
	if changed("tmpdir") {
		if cfg.Compiler.TempDir, err = config.ExpandPath(strings.TrimSpace(f.tmpDir)); err != nil {
			return fmt.Errorf("--tmpdir: %w", err)
		}
	}
	if changed("devstage") {
		cfg.Compiler.Stage = strings.ToLower(strings.TrimSpace(f.devStage))
	}
	switch {
	case f.dev:
		cfg.Compiler.Stage = config.StageDevelopment
	case f.release:
		cfg.Compiler.Stage = config.StageRelease
	}
	if changed("language") {
		cfg.Compiler.Language = strings.TrimSpace(f.language)
	}
	if changed("librarypaths") {
		cfg.Compiler.LibraryPaths = compiler.SplitLibraryPaths(f.libraryPaths)
	}
	if changed("unicode") {
		cfg.Compiler.Unicode = f.unicode
	}
	if changed("storyfileversion") {
		cfg.Compiler.StoryVersion = f.storyVersion
	}
	if changed("outdirectory") {
		if cfg.Output.Directory, err = config.ExpandPath(strings.TrimSpace(f.outDir)); err != nil {
			return fmt.Errorf("--outdirectory: %w", err)
		}
	}
	if changed("storyfileprefix") {
		cfg.Output.Prefix = f.prefix
	}
	if changed("storyfilesuffix") {
		cfg.Output.Suffix = f.suffix
	}
	if changed("nostorysuffix") {
		cfg.Output.NoSuffix = f.noSuffix
	}
	if changed("writejs") {
		cfg.Output.WriteJS = f.writeJS
	}
	if changed("force") {
		cfg.Output.Force = f.force
	}
	if changed("linklatest") {
		cfg.Output.LinkLatest = f.linkLatest
	}
	if f.noHistory {
		cfg.History.Enabled = false
	}
	return cfg.Validate()
}

func runBuild(cmd *cobra.Command, ctx *commandContext, f *buildFlags, files []string) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if err := applyBuildFlags(cmd, f, &cfg); err != nil {
		return err
	}

	logger, err := ctx.newLogger(&cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger.Debug("inform-compile started",
		logging.String("version", version),
		logging.String("config_path", ctx.configPath),
		logging.Bool("config_exists", ctx.configExists),
	)

	checks := preflight.RunAll(preflight.Settings{
		CompilerBinary: cfg.Compiler.Binary,
		TempDir:        cfg.Compiler.TempDir,
	})
	if err := preflight.FirstFailure(checks); err != nil {
		logger.Error("preflight failed", logging.Error(err))
		return err
	}

	client, err := compiler.New(cfg.Compiler.Binary,
		compiler.WithOutput(cmd.ErrOrStderr()),
		compiler.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	opts := build.OptionsFromConfig(&cfg)
	opts.Statistics = ctx.verbosityLevel() > 0
	builderOpts := []build.Option{build.WithLogger(logger)}
	if store := openHistory(&cfg, logger); store != nil {
		defer store.Close()
		builderOpts = append(builderOpts, build.WithRecorder(store))
	}

	builder, err := build.New(client, opts, builderOpts...)
	if err != nil {
		return err
	}
	report, runErr := builder.Run(cmd.Context(), files)

	if f.summary {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(report))
	}
	return runErr
}

// openHistory returns nil when history is disabled or unavailable.
func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logging.WarnWithContext(logger, "build history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String("path", cfg.History.Path),
			logging.String(logging.FieldImpact, "builds from this run are not recorded"),
		)
		return nil
	}
	return store
}

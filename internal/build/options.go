package build

import (
	"strings"

	"informcompile/internal/compiler"
	"informcompile/internal/config"
)

// Options is the resolved per-run configuration.
type Options struct {
	Stage        string
	Language     string
	Unicode      bool
	Statistics   bool
	TempDir      string
	LibraryPaths []string
	StoryVersion int

	OutputDir  string
	Prefix     string
	Suffix     string
	NoSuffix   bool
	WriteJS    bool
	Force      bool
	LinkLatest bool
}

// OptionsFromConfig maps configuration sections onto build options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{Stage: config.StageRelease, StoryVersion: compiler.DefaultStoryVersion}
	}
	return Options{
		Stage:        cfg.Compiler.Stage,
		Language:     cfg.Compiler.Language,
		Unicode:      cfg.Compiler.Unicode,
		TempDir:      cfg.Compiler.TempDir,
		LibraryPaths: append([]string(nil), cfg.Compiler.LibraryPaths...),
		StoryVersion: cfg.Compiler.StoryVersion,
		OutputDir:    cfg.Output.Directory,
		Prefix:       cfg.Output.Prefix,
		Suffix:       cfg.Output.Suffix,
		NoSuffix:     cfg.Output.NoSuffix,
		WriteJS:      cfg.Output.WriteJS,
		Force:        cfg.Output.Force,
		LinkLatest:   cfg.Output.LinkLatest,
	}
}

func (o Options) storyVersion() int {
	if o.StoryVersion == 0 {
		return compiler.DefaultStoryVersion
	}
	return o.StoryVersion
}

func (o Options) stage() string {
	stage := strings.ToLower(strings.TrimSpace(o.Stage))
	if stage == "" {
		return config.StageRelease
	}
	return stage
}

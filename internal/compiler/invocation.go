package compiler

import (
	"strconv"
	"strings"

	"informcompile/internal/config"
	"informcompile/internal/language"
)

// DefaultStoryVersion is the Z-machine version the compiler targets without a -v switch.
const DefaultStoryVersion = 5

// Invocation describes a single compiler run.
type Invocation struct {
	Unicode      bool
	Stage        string
	Statistics   bool
	StoryVersion int
	// Language is a loose language name; see language.Resolve.
	Language     string
	LibraryPaths []string
	SourceDir    string
	TempDir      string
	Source       string
	Output       string
}

// Args renders the compiler argument list in the order the compiler expects:
// switches, path settings, then source and output.
func (inv Invocation) Args() []string {
	args := make([]string, 0, 10)
	if inv.Unicode {
		args = append(args, "-Cu")
	}
	switch inv.Stage {
	case config.StageRelease:
		// strict mode is on by default
		args = append(args, "-~S")
	case config.StageDevelopment:
		// strict mode, debug verbs, infix debugger
		args = append(args, "-SDX")
	}
	if inv.Statistics {
		args = append(args, "-s")
	}
	if inv.StoryVersion != 0 && inv.StoryVersion != DefaultStoryVersion {
		args = append(args, "-v"+strconv.Itoa(inv.StoryVersion))
	}
	if name, _ := language.Resolve(inv.Language); name != language.English {
		args = append(args, "+language_name="+name)
	}
	if paths := inv.libraryPathArg(); paths != "" {
		args = append(args, paths)
	}
	if inv.TempDir != "" {
		args = append(args, "+temporary_path="+inv.TempDir)
	}
	args = append(args, inv.Source, inv.Output)
	return args
}

func (inv Invocation) libraryPathArg() string {
	if len(inv.LibraryPaths) == 0 {
		return ""
	}
	paths := append([]string(nil), inv.LibraryPaths...)
	if inv.SourceDir != "" {
		paths = append(paths, inv.SourceDir)
	}
	return "+" + strings.Join(paths, ",")
}

// CommandLine joins binary and Args for logging.
func (inv Invocation) CommandLine(binary string) string {
	parts := append([]string{binary}, inv.Args()...)
	for i, part := range parts {
		if strings.ContainsAny(part, " \t\"'") {
			parts[i] = strconv.Quote(part)
		}
	}
	return strings.Join(parts, " ")
}

// SplitLibraryPaths splits a comma-separated --librarypaths value.
func SplitLibraryPaths(value string) []string {
	var paths []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

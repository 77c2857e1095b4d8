package storyfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"informcompile/internal/metadata"
)

// SourceExtension is the extension Inform 6 sources are expected to carry.
const SourceExtension = ".inf"

// ErrOutputDirMissing indicates the resolved output directory does not exist.
var ErrOutputDirMissing = errors.New("output directory not found")

// NameOptions controls how output paths are derived.
type NameOptions struct {
	// OutputDir defaults to the source file's directory.
	OutputDir string
	Prefix    string
	// Suffix overrides the _<release>_<serial> default when non-empty.
	Suffix   string
	NoSuffix bool
	Version  int
}

// Target is a resolved story file location.
type Target struct {
	Dir     string // always ends with a path separator
	Prefix  string
	Base    string
	Suffix  string
	Version int
	Path    string
}

// Extension returns the story file extension, e.g. ".z5".
func (t Target) Extension() string {
	return ".z" + strconv.Itoa(t.Version)
}

// LatestPath is the suffix-less path used for the newest-build symlink.
func (t Target) LatestPath() string {
	return t.Dir + t.Prefix + t.Base + t.Extension()
}

// JSPath is the path of the Base64 JavaScript wrapper for this story file.
func (t Target) JSPath() string {
	return t.Path + ".js"
}

// SourceDir returns the directory component of source, or "./" when it has none.
func SourceDir(source string) string {
	dir, _ := filepath.Split(source)
	if dir == "" {
		return "." + string(filepath.Separator)
	}
	return dir
}

// Resolve computes the story file target for source.
func Resolve(source string, opts NameOptions, meta metadata.Metadata, now time.Time) (Target, error) {
	dir := opts.OutputDir
	if strings.TrimSpace(dir) == "" {
		dir = SourceDir(source)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Target{}, fmt.Errorf("%w: %s", ErrOutputDirMissing, dir)
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) && !strings.HasSuffix(dir, "/") {
		dir += string(filepath.Separator)
	}

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	suffix := opts.Suffix
	if suffix == "" {
		suffix = "_" + meta.Release() + "_" + meta.Serial(now)
	}
	if opts.NoSuffix {
		suffix = ""
	}

	target := Target{
		Dir:     dir,
		Prefix:  opts.Prefix,
		Base:    base,
		Suffix:  suffix,
		Version: opts.Version,
	}
	target.Path = dir + opts.Prefix + base + suffix + target.Extension()
	return target, nil
}

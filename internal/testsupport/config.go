package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"informcompile/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Compiler.Binary = filepath.Join(base, "bin", "inform")
	cfgVal.Compiler.TempDir = filepath.Join(base, "tmp")
	cfgVal.History.Path = filepath.Join(base, "history", "history.db")
	if err := os.MkdirAll(cfgVal.Compiler.TempDir, 0o755); err != nil {
		t.Fatalf("mkdir temp dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHistoryDisabled turns off the build history database.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithOutputDir points story output at a fresh directory under the test base.
func WithOutputDir() ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.baseDir, "out")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir output dir: %v", err)
		}
		b.cfg.Output.Directory = dir
	}
}

// WithStubCompiler writes a stub Inform binary that records its arguments to
// ArgsFile and writes a minimal Z-machine header to the output path. The
// header version follows the -vN switch and defaults to 5.
func WithStubCompiler() ConfigOption {
	return func(b *configBuilder) {
		writeStub(b, stubCompilerScript)
	}
}

// WithFailingCompiler writes a stub Inform binary that prints a diagnostic
// and exits with code.
func WithFailingCompiler(code int) ConfigOption {
	return func(b *configBuilder) {
		writeStub(b, fmt.Sprintf("printf '%%s\\n' \"$@\" > \"$(dirname \"$0\")/inform.args\"\necho \"Error: expected ';'\"\nexit %d\n", code))
	}
}

// WithSilentCompiler writes a stub Inform binary that exits cleanly without
// producing a story file.
func WithSilentCompiler() ConfigOption {
	return func(b *configBuilder) {
		writeStub(b, "exit 0\n")
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"inform"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, []byte("#!/bin/sh\n"+stubCompilerScript), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// ArgsFile returns where the stub compiler records the arguments of its last run.
func ArgsFile(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.Compiler.Binary), "inform.args")
}

const stubCompilerScript = `version=5
for arg; do
  case "$arg" in
    -v[0-9]) version="${arg#-v}" ;;
  esac
  last="$arg"
done
printf '%s\n' "$@" > "$(dirname "$0")/inform.args"
echo "Inform 6.42 (stub)"
printf "\\$(printf '%03o' "$version")" > "$last"
head -c 63 /dev/zero >> "$last"
`

func writeStub(b *configBuilder, body string) {
	b.t.Helper()
	binDir := filepath.Dir(b.cfg.Compiler.Binary)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	if err := os.WriteFile(b.cfg.Compiler.Binary, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		b.t.Fatalf("write stub compiler: %v", err)
	}
}

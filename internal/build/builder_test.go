package build_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"informcompile/internal/build"
	"informcompile/internal/compiler"
	"informcompile/internal/config"
	"informcompile/internal/history"
	"informcompile/internal/storyfile"
)

var fixedNow = time.Date(2021, time.January, 1, 12, 0, 0, 0, time.UTC)

type stubCompiler struct {
	calls   []compiler.Invocation
	err     error
	noWrite bool
	version byte
}

func (s *stubCompiler) Compile(_ context.Context, inv compiler.Invocation) error {
	s.calls = append(s.calls, inv)
	if s.err != nil {
		return s.err
	}
	if s.noWrite {
		return nil
	}
	version := s.version
	if version == 0 {
		version = byte(inv.StoryVersion)
	}
	story := make([]byte, 64)
	story[0] = version
	return os.WriteFile(inv.Output, story, 0o644)
}

type stubRecorder struct {
	entries []history.Entry
	err     error
}

func (r *stubRecorder) Record(_ context.Context, entry history.Entry) (history.Entry, error) {
	if r.err != nil {
		return history.Entry{}, r.err
	}
	r.entries = append(r.entries, entry)
	return entry, nil
}

func writeSource(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func newBuilder(t *testing.T, c build.Compiler, opts build.Options, extra ...build.Option) *build.Builder {
	t.Helper()
	options := append([]build.Option{build.WithClock(func() time.Time { return fixedNow }), build.WithRunID("run-test")}, extra...)
	b, err := build.New(c, opts, options...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func baseOptions(t *testing.T) build.Options {
	t.Helper()
	return build.Options{Stage: config.StageRelease, StoryVersion: 5, TempDir: t.TempDir(), Language: "English"}
}

func TestRunCompilesWithMetadataSuffix(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "game.inf", "! Release: 7\n! Serial: \"210101\"\n\n[ Main; ];\n")
	stub := &stubCompiler{}
	rec := &stubRecorder{}

	report, err := newBuilder(t, stub, baseOptions(t), build.WithRecorder(rec)).Run(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.RunID != "run-test" || report.Compiled() != 1 || report.Skipped() != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	out := report.Outcomes[0]
	want := filepath.Join(dir, "game_7_210101.z5")
	if out.Target != want || out.Story == nil || out.Story.Path != want {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Story.Size != 64 || out.Story.MD5 == "" {
		t.Fatalf("unexpected artifact: %+v", out.Story)
	}
	if out.Header == nil || out.Header.Version != 5 {
		t.Fatalf("expected parsed header, got %+v", out.Header)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("expected one compile, got %d", len(stub.calls))
	}
	inv := stub.calls[0]
	if inv.Source != source || inv.Output != want || inv.SourceDir != dir+string(filepath.Separator) {
		t.Fatalf("unexpected invocation: %+v", inv)
	}
	if len(rec.entries) != 1 {
		t.Fatalf("expected history entry, got %d", len(rec.entries))
	}
	entry := rec.entries[0]
	if entry.RunID != "run-test" || entry.Release != "7" || entry.Serial != "210101" || entry.Language != "" {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
	if !entry.CompiledAt.Equal(fixedNow) {
		t.Fatalf("unexpected compiled_at %v", entry.CompiledAt)
	}
}

func TestRunSkipsMissingAndNonSourceFiles(t *testing.T) {
	dir := t.TempDir()
	notSource := writeSource(t, dir, "notes.txt", "hello\n")
	good := writeSource(t, dir, "game.inf", "")
	stub := &stubCompiler{}

	files := []string{filepath.Join(dir, "missing.inf"), notSource, dir, good}
	report, err := newBuilder(t, stub, baseOptions(t)).Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantReasons := []build.SkipReason{build.SkipNotFound, build.SkipNotSource, build.SkipNotFound, ""}
	if len(report.Outcomes) != len(wantReasons) {
		t.Fatalf("expected %d outcomes, got %d", len(wantReasons), len(report.Outcomes))
	}
	for i, want := range wantReasons {
		if report.Outcomes[i].Reason != want {
			t.Fatalf("outcome %d reason = %q, want %q", i, report.Outcomes[i].Reason, want)
		}
	}
	if report.Outcomes[3].Target != filepath.Join(dir, "game_1_210101.z5") {
		t.Fatalf("unexpected default target %q", report.Outcomes[3].Target)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("expected only the .inf file compiled, got %d calls", len(stub.calls))
	}
}

func TestRunSkipsExistingOutputUnlessForced(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "game.inf", "")
	existing := filepath.Join(dir, "game.z5")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}
	opts := baseOptions(t)
	opts.NoSuffix = true

	stub := &stubCompiler{}
	report, err := newBuilder(t, stub, opts).Run(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Outcomes[0].Reason != build.SkipOutputExists || len(stub.calls) != 0 {
		t.Fatalf("expected skip for existing output, got %+v", report.Outcomes[0])
	}

	opts.Force = true
	report, err = newBuilder(t, stub, opts).Run(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("Run with force: %v", err)
	}
	if report.Outcomes[0].Status != build.StatusCompiled || len(stub.calls) != 1 {
		t.Fatalf("expected forced recompile, got %+v", report.Outcomes[0])
	}
}

func TestRunLanguageFromMetadataOverridesOption(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "hule.inf", "! Sprog: dansk\n\n")
	stub := &stubCompiler{}
	rec := &stubRecorder{}

	report, err := newBuilder(t, stub, baseOptions(t), build.WithRecorder(rec)).Run(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stub.calls[0].Language != "dansk" {
		t.Fatalf("expected metadata language, got %q", stub.calls[0].Language)
	}
	found := false
	for _, arg := range stub.calls[0].Args() {
		if arg == "+language_name=Danish" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Danish language switch in %v", stub.calls[0].Args())
	}
	if report.Outcomes[0].Language != "Danish" || rec.entries[0].Language != "Danish" {
		t.Fatalf("unexpected language in outcome %+v / entry %+v", report.Outcomes[0], rec.entries[0])
	}
}

func TestRunCompileFailureAbortsRun(t *testing.T) {
	dir := t.TempDir()
	first := writeSource(t, dir, "a.inf", "")
	second := writeSource(t, dir, "b.inf", "")
	stub := &stubCompiler{err: &compiler.ExitError{Source: first, Code: 1}}

	report, err := newBuilder(t, stub, baseOptions(t)).Run(context.Background(), []string{first, second})
	if !errors.Is(err, compiler.ErrCompileFailed) {
		t.Fatalf("expected ErrCompileFailed, got %v", err)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("expected run to stop after first failure, got %d calls", len(stub.calls))
	}
	if len(report.Outcomes) != 1 {
		t.Fatalf("expected one outcome for the failing source, got %+v", report.Outcomes)
	}
	failed := report.Outcomes[0]
	if failed.Source != first || failed.Status != build.StatusFailed {
		t.Fatalf("unexpected failed outcome %+v", failed)
	}
	if failed.Target != filepath.Join(dir, "a_1_210101.z5") {
		t.Fatalf("expected failed outcome to carry the target, got %q", failed.Target)
	}
	if !strings.Contains(failed.Error, "exit status 1") {
		t.Fatalf("expected error text on outcome, got %q", failed.Error)
	}
	if report.Failed() != 1 || report.Compiled() != 0 {
		t.Fatalf("unexpected counts compiled=%d failed=%d", report.Compiled(), report.Failed())
	}
}

func TestRunMissingArtifactIsFatal(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "a.inf", "")
	_, err := newBuilder(t, &stubCompiler{noWrite: true}, baseOptions(t)).Run(context.Background(), []string{source})
	if !errors.Is(err, storyfile.ErrOutputMissing) {
		t.Fatalf("expected ErrOutputMissing, got %v", err)
	}
}

func TestRunMissingOutputDirIsFatal(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "a.inf", "")
	opts := baseOptions(t)
	opts.OutputDir = filepath.Join(dir, "missing")

	report, err := newBuilder(t, &stubCompiler{}, opts).Run(context.Background(), []string{source})
	if !errors.Is(err, storyfile.ErrOutputDirMissing) {
		t.Fatalf("expected ErrOutputDirMissing, got %v", err)
	}
	if len(report.Outcomes) != 1 || report.Outcomes[0].Status != build.StatusFailed || report.Outcomes[0].Target != "" {
		t.Fatalf("expected a failed outcome without target, got %+v", report.Outcomes)
	}
}

func TestRunResolvesEachFileIndependently(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	a := writeSource(t, first, "a.inf", "Release 2;\nSerial \"200101\";\n")
	b := writeSource(t, second, "b.inf", "Release 3;\n")

	report, err := newBuilder(t, &stubCompiler{}, baseOptions(t)).Run(context.Background(), []string{a, b})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Outcomes[0].Target != filepath.Join(first, "a_2_200101.z5") {
		t.Fatalf("unexpected first target %q", report.Outcomes[0].Target)
	}
	if report.Outcomes[1].Target != filepath.Join(second, "b_3_210101.z5") {
		t.Fatalf("unexpected second target %q", report.Outcomes[1].Target)
	}
}

func TestRunWritesJSAndLatestLink(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "game.inf", "Release 4;\nSerial \"201212\";\n")
	opts := baseOptions(t)
	opts.WriteJS = true
	opts.LinkLatest = true
	opts.StoryVersion = 8
	rec := &stubRecorder{}

	report, err := newBuilder(t, &stubCompiler{}, opts, build.WithRecorder(rec)).Run(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := report.Outcomes[0]
	story := filepath.Join(dir, "game_4_201212.z8")
	if out.JS == nil || out.JS.Path != story+".js" {
		t.Fatalf("expected js artifact, got %+v", out.JS)
	}
	content, err := os.ReadFile(out.JS.Path)
	if err != nil {
		t.Fatalf("read js: %v", err)
	}
	if !strings.HasPrefix(string(content), storyfile.JSFunction+"('") {
		t.Fatalf("unexpected js content %q", content)
	}
	if out.Link != filepath.Join(dir, "game.z8") {
		t.Fatalf("unexpected link %q", out.Link)
	}
	if dest, err := os.Readlink(out.Link); err != nil || dest != "game_4_201212.z8" {
		t.Fatalf("readlink = %q err=%v", dest, err)
	}
	if rec.entries[0].JSPath == "" {
		t.Fatal("expected js path in history entry")
	}
}

func TestRunHeaderVersionMismatchIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "game.inf", "")
	report, err := newBuilder(t, &stubCompiler{version: 3}, baseOptions(t)).Run(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Outcomes[0].Header == nil || report.Outcomes[0].Header.Version != 3 {
		t.Fatalf("expected header version 3, got %+v", report.Outcomes[0].Header)
	}
}

func TestRunHistoryFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "game.inf", "")
	rec := &stubRecorder{err: errors.New("disk full")}

	report, err := newBuilder(t, &stubCompiler{}, baseOptions(t), build.WithRecorder(rec)).Run(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Compiled() != 1 {
		t.Fatalf("expected compile to succeed, got %+v", report)
	}
}

func TestRunRefusesLockedTempDir(t *testing.T) {
	opts := baseOptions(t)
	held := flock.New(filepath.Join(opts.TempDir, build.LockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	source := writeSource(t, t.TempDir(), "game.inf", "")
	_, err = newBuilder(t, &stubCompiler{}, opts).Run(context.Background(), []string{source})
	if !errors.Is(err, build.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunRemovesLockFileWhenDone(t *testing.T) {
	opts := baseOptions(t)
	lockPath := filepath.Join(opts.TempDir, build.LockFileName)
	dir := t.TempDir()

	for i, name := range []string{"a.inf", "b.inf"} {
		source := writeSource(t, dir, name, "")
		if _, err := newBuilder(t, &stubCompiler{}, opts).Run(context.Background(), []string{source}); err != nil {
			t.Fatalf("run #%d: %v", i+1, err)
		}
		if _, err := os.Stat(lockPath); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected lock file removed after run #%d, stat err = %v", i+1, err)
		}
	}
}

func TestRunWithRealHistoryStore(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "game.inf", "Release 9;\n")
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open history: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := newBuilder(t, &stubCompiler{}, baseOptions(t), build.WithRecorder(store)).Run(context.Background(), []string{source}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	entries, err := store.Recent(context.Background(), 5, "")
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Release != "9" || entries[0].Stage != config.StageRelease {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestNewRequiresCompiler(t *testing.T) {
	if _, err := build.New(nil, build.Options{}); err == nil {
		t.Fatal("expected error without compiler")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Prefix = "dk_"
	cfg.Compiler.LibraryPaths = []string{"/lib"}
	opts := build.OptionsFromConfig(&cfg)
	if opts.Prefix != "dk_" || opts.Stage != config.StageRelease || opts.StoryVersion != 5 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	cfg.Compiler.LibraryPaths[0] = "/changed"
	if opts.LibraryPaths[0] != "/lib" {
		t.Fatal("expected library paths to be copied")
	}
}

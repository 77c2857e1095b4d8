package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"informcompile/internal/compiler"
	"informcompile/internal/history"
	"informcompile/internal/language"
	"informcompile/internal/logging"
	"informcompile/internal/metadata"
	"informcompile/internal/storyfile"
)

// Compiler runs one compiler invocation.
type Compiler interface {
	Compile(ctx context.Context, inv compiler.Invocation) error
}

// Recorder persists successful builds.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRecorder enables build history.
func WithRecorder(r Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithClock overrides the time source used for default serial numbers.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(b *Builder) {
		if id != "" {
			b.runID = id
		}
	}
}

// Builder compiles a list of sources with fixed options.
type Builder struct {
	compiler Compiler
	opts     Options
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
	runID    string
}

// New constructs a Builder.
func New(c Compiler, opts Options, options ...Option) (*Builder, error) {
	if c == nil {
		return nil, errors.New("build: compiler is required")
	}
	b := &Builder{
		compiler: c,
		opts:     opts,
		logger:   logging.NewNop(),
		now:      time.Now,
		runID:    uuid.NewString(),
	}
	for _, opt := range options {
		opt(b)
	}
	b.logger = logging.NewComponentLogger(b.logger, "build").With(logging.String(logging.FieldRunID, b.runID))
	return b, nil
}

// RunID returns the identifier attached to logs and history rows.
func (b *Builder) RunID() string {
	return b.runID
}

// Run processes files in order. On a fatal error the report ends with a
// failed outcome for the file that caused it.
func (b *Builder) Run(ctx context.Context, files []string) (report Report, err error) {
	start := time.Now()
	report = Report{RunID: b.runID}
	defer func() {
		report.Duration = time.Since(start)
		b.logger.Debug("processing finished",
			logging.String("processing_time", fmt.Sprintf("%.2f s", report.Duration.Seconds())),
			logging.Int("compiled", report.Compiled()),
			logging.Int("skipped", report.Skipped()),
		)
	}()

	lock, err := acquireLock(b.opts.TempDir)
	if err != nil {
		return report, err
	}
	if lock != nil {
		defer func() {
			if err := releaseLock(lock); err != nil {
				b.logger.Warn("failed to release temp directory lock", logging.Error(err))
			}
		}()
	}

	for _, source := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, err := b.buildOne(ctx, source)
		if err != nil {
			outcome.Source = source
			outcome.Status = StatusFailed
			outcome.Error = err.Error()
			report.Outcomes = append(report.Outcomes, outcome)
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report, nil
}

func (b *Builder) buildOne(ctx context.Context, source string) (Outcome, error) {
	start := time.Now()
	logger := b.logger.With(logging.String(logging.FieldSource, source))
	logger.Info("processing source")

	if info, err := os.Stat(source); err != nil || info.IsDir() {
		logging.WarnWithContext(logger, "source not found, skipping", string(SkipNotFound),
			logging.String(logging.FieldErrorHint, "check the input path"),
			logging.String(logging.FieldImpact, "file was not compiled"),
		)
		return skipped(source, SkipNotFound), nil
	}
	if filepath.Ext(source) != storyfile.SourceExtension {
		logging.WarnWithContext(logger, "possibly not inform source code, skipping", string(SkipNotSource),
			logging.String(logging.FieldErrorHint, "Inform 6 sources use the .inf extension"),
			logging.String(logging.FieldImpact, "file was not compiled"),
		)
		return skipped(source, SkipNotSource), nil
	}

	meta, err := metadata.Extract(source)
	if err != nil {
		return Outcome{}, err
	}
	logger.Debug("metadata extracted",
		logging.String("encoding", meta.Encoding),
		logging.Any("keys", meta.Keys),
	)

	now := b.now()
	if b.opts.OutputDir == "" {
		logger.Info("output directory not specified, using source directory",
			logging.String("directory", storyfile.SourceDir(source)))
	}
	target, err := storyfile.Resolve(source, b.nameOptions(), meta, now)
	if err != nil {
		return Outcome{}, err
	}

	if _, err := os.Stat(target.Path); err == nil && !b.opts.Force {
		logging.WarnWithContext(logger, "story file already exists, skipping", string(SkipOutputExists),
			logging.String("story", target.Path),
			logging.String(logging.FieldErrorHint, "use --force or -f to overwrite"),
			logging.String(logging.FieldImpact, "existing story file kept"),
		)
		out := skipped(source, SkipOutputExists)
		out.Target = target.Path
		return out, nil
	}

	lang := b.opts.Language
	if override, ok := meta.Language(); ok {
		lang = override
	}
	inv := compiler.Invocation{
		Unicode:      b.opts.Unicode,
		Stage:        b.opts.stage(),
		Statistics:   b.opts.Statistics,
		StoryVersion: b.opts.storyVersion(),
		Language:     lang,
		LibraryPaths: b.opts.LibraryPaths,
		SourceDir:    storyfile.SourceDir(source),
		TempDir:      b.opts.TempDir,
		Source:       source,
		Output:       target.Path,
	}
	if err := b.compiler.Compile(ctx, inv); err != nil {
		logging.ErrorWithContext(logger, "compilation unsuccessful", "compile_failed", logging.Error(err))
		return Outcome{Target: target.Path}, err
	}
	logger.Info("compilation successful")

	story, err := storyfile.Inspect(target.Path)
	if err != nil {
		return Outcome{Target: target.Path}, fmt.Errorf("compiled %s: %w", source, err)
	}
	logger.Info("wrote story file",
		logging.String("story", story.Path),
		logging.String("md5", story.MD5),
		logging.String("size", story.Human),
	)

	informName, _ := language.Resolve(lang)
	outcome := Outcome{
		Source:   source,
		Status:   StatusCompiled,
		Target:   target.Path,
		Release:  meta.Release(),
		Serial:   meta.Serial(now),
		Language: informName,
		Story:    &story,
	}
	outcome.Header = b.checkHeader(logger, target.Path)

	if b.opts.WriteJS {
		logger.Info("base64 encoding story file for web interpreters")
		jsPath, err := storyfile.WriteJS(target.Path)
		if err != nil {
			return Outcome{Target: target.Path}, err
		}
		js, err := storyfile.Inspect(jsPath)
		if err != nil {
			return Outcome{Target: target.Path}, err
		}
		logger.Info("wrote base64 encoded story file",
			logging.String("js", js.Path),
			logging.String("md5", js.MD5),
			logging.String("size", js.Human),
		)
		outcome.JS = &js
	}

	if b.opts.LinkLatest {
		link, err := storyfile.LinkLatest(target)
		if err != nil {
			logging.WarnWithContext(logger, "failed to refresh latest link", "link_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "latest link may point at an older build"),
			)
		} else if link != "" {
			logger.Info("updated latest link", logging.String("link", link))
			outcome.Link = link
		}
	}

	outcome.Duration = time.Since(start)
	b.record(ctx, logger, outcome, now)
	return outcome, nil
}

func (b *Builder) nameOptions() storyfile.NameOptions {
	return storyfile.NameOptions{
		OutputDir: b.opts.OutputDir,
		Prefix:    b.opts.Prefix,
		Suffix:    b.opts.Suffix,
		NoSuffix:  b.opts.NoSuffix,
		Version:   b.opts.storyVersion(),
	}
}

func (b *Builder) checkHeader(logger *slog.Logger, path string) *storyfile.Header {
	header, err := storyfile.ReadHeader(path)
	if err != nil {
		logging.WarnWithContext(logger, "unable to read story file header", "header_unreadable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "story file may not be a valid Z-machine image"),
		)
		return nil
	}
	if want := b.opts.storyVersion(); header.Version != want {
		logging.WarnWithContext(logger, "story file version differs from requested version", "version_mismatch",
			logging.Int("header_version", header.Version),
			logging.Int("requested_version", want),
			logging.String(logging.FieldErrorHint, "check --storyfileversion against the compiler's -v switch"),
		)
	}
	return &header
}

func (b *Builder) record(ctx context.Context, logger *slog.Logger, outcome Outcome, now time.Time) {
	if b.recorder == nil || outcome.Story == nil {
		return
	}
	entry := history.Entry{
		RunID:      b.runID,
		Source:     absPath(outcome.Source),
		Story:      absPath(outcome.Story.Path),
		Release:    outcome.Release,
		Serial:     outcome.Serial,
		Stage:      b.opts.stage(),
		MD5:        outcome.Story.MD5,
		Size:       outcome.Story.Size,
		CompiledAt: now,
	}
	if !language.IsEnglish(outcome.Language) {
		entry.Language = outcome.Language
	}
	if outcome.JS != nil {
		entry.JSPath = absPath(outcome.JS.Path)
	}
	if _, err := b.recorder.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "failed to record build history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "build is missing from history"),
		)
	}
}

func skipped(source string, reason SkipReason) Outcome {
	return Outcome{Source: source, Status: StatusSkipped, Reason: reason}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

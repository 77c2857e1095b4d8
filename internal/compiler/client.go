package compiler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"informcompile/internal/logging"
)

// ErrCompileFailed indicates the compiler exited with a non-zero status.
var ErrCompileFailed = errors.New("compilation unsuccessful")

// ExitError reports a non-zero compiler exit status.
type ExitError struct {
	Source string
	Code   int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("compile %s: exit status %d", e.Source, e.Code)
}

// Unwrap lets callers match ErrCompileFailed.
func (e *ExitError) Unwrap() error { return ErrCompileFailed }

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithOutput sets where compiler output lines are written. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(c *Client) {
		if w != nil {
			c.output = w
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "compiler")
	}
}

// Client wraps Inform compiler invocations.
type Client struct {
	binary string
	exec   Executor
	output io.Writer
	logger *slog.Logger
}

// New constructs a compiler client for binary.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("inform binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
		output: os.Stderr,
		logger: logging.NewComponentLogger(nil, "compiler"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the compiler executable the client runs.
func (c *Client) Binary() string {
	return c.binary
}

// Compile runs the compiler for inv. A non-zero exit status is returned as
// *ExitError; failures to start or supervise the process are wrapped as-is.
func (c *Client) Compile(ctx context.Context, inv Invocation) error {
	c.logger.Info("compiling source",
		logging.String(logging.FieldSource, inv.Source),
		logging.String("command", inv.CommandLine(c.binary)),
	)
	err := c.exec.Run(ctx, c.binary, inv.Args(), func(line string) {
		fmt.Fprintln(c.output, line)
	})
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Source: inv.Source, Code: exitErr.ExitCode()}
	}
	var codeErr *ExitError
	if errors.As(err, &codeErr) {
		return err
	}
	return fmt.Errorf("run inform compiler: %w", err)
}

// maxOutputLine bounds a single line of compiler output.
const maxOutputLine = 1 << 20

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var scanErr error
	var once sync.Once

	forward := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if onOutput != nil {
			onOutput(line)
		}
	}

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxOutputLine)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
			// Keep draining so the compiler never blocks on a full pipe.
			_, _ = io.Copy(io.Discard, r)
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if err := cmd.Wait(); err != nil {
		return err
	}
	if scanErr != nil {
		return fmt.Errorf("scan output: %w", scanErr)
	}
	return nil
}

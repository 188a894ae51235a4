package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	stderrTailBytes = 2048
	waitDelay       = 5 * time.Second
)

var pdfMagic = []byte("%PDF-")

// Invocation describes a single external tool run.
type Invocation struct {
	Tool       string // human readable name used in errors and logs
	Executable string
	Args       []string
	Dir        string
	// ExpectedOutput is checked for existence and non-zero size after a
	// successful exit. Leave empty when the caller validates outputs itself.
	ExpectedOutput string
	ExpectPDF      bool
	Timeout        time.Duration
}

// Result describes a successful run.
type Result struct {
	OutputPath string
	Size       int64
	Duration   time.Duration
	Stdout     string
	Stderr     string
}

// Runner executes external tools.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

type execRunner struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewRunner returns a Runner backed by os/exec. defaultTimeout applies to
// invocations that do not set their own.
func NewRunner(defaultTimeout time.Duration, logger *zap.Logger) Runner {
	return &execRunner{timeout: defaultTimeout, logger: logger}
}

// Available reports whether executable can be resolved on PATH.
func Available(executable string) bool {
	_, err := exec.LookPath(executable)
	return err == nil
}

func (r *execRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	path, err := exec.LookPath(inv.Executable)
	if err != nil {
		return nil, &ToolError{Tool: inv.Tool, Kind: KindUnavailable, Err: err}
	}

	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}

	// A started tool runs to completion or timeout regardless of the caller.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = waitDelay
	stdout := &tailBuffer{max: stderrTailBytes}
	stderr := &tailBuffer{max: stderrTailBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.logger.Debug("toolrun.Run: starting",
		zap.String("tool", inv.Tool),
		zap.String("executable", path),
		zap.Strings("args", inv.Args),
		zap.Duration("timeout", timeout),
	)

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		r.discard(inv.ExpectedOutput)
		r.logger.Warn("toolrun.Run: timed out",
			zap.String("tool", inv.Tool),
			zap.Duration("elapsed", elapsed),
		)
		return nil, &ToolError{
			Tool:   inv.Tool,
			Kind:   KindTimeout,
			Stderr: stderr.String(),
			Err:    fmt.Errorf("exceeded %s", timeout),
		}
	}
	if runErr != nil {
		r.discard(inv.ExpectedOutput)
		r.logger.Warn("toolrun.Run: tool failed",
			zap.String("tool", inv.Tool),
			zap.Error(runErr),
			zap.String("stderr", stderr.String()),
		)
		return nil, &ToolError{Tool: inv.Tool, Kind: KindFailure, Stderr: stderr.String(), Err: runErr}
	}

	res := &Result{
		OutputPath: inv.ExpectedOutput,
		Duration:   elapsed,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}
	if inv.ExpectedOutput == "" {
		return res, nil
	}

	size, err := verifyOutput(inv.ExpectedOutput, inv.ExpectPDF)
	if err != nil {
		r.discard(inv.ExpectedOutput)
		return nil, &ToolError{Tool: inv.Tool, Kind: KindFailure, Stderr: stderr.String(), Err: err}
	}
	res.Size = size

	r.logger.Debug("toolrun.Run: finished",
		zap.String("tool", inv.Tool),
		zap.Int64("output_size", size),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}

func (r *execRunner) discard(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("toolrun.discard: removing partial output", zap.String("path", path), zap.Error(err))
	}
}

func verifyOutput(path string, expectPDF bool) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("expected output missing: %w", err)
	}
	if info.Size() == 0 {
		return 0, errors.New("expected output is empty")
	}
	if expectPDF {
		ok, err := HasPDFMagic(path)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, errors.New("output is not a PDF")
		}
	}
	return info.Size(), nil
}

// HasPDFMagic reports whether the file at path starts with the PDF signature.
func HasPDFMagic(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false, nil
	}
	return bytes.Equal(head, pdfMagic), nil
}

// tailBuffer keeps at most the last max bytes written to it, starting on a
// rune boundary.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		for over < len(t.buf) && !utf8.RuneStart(t.buf[over]) {
			over++
		}
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}

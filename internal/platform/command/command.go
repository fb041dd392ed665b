// Package command runs external client tools and captures their outcome
// uniformly. Invocations never surface a Go error for tool failures: exit
// codes, output and launch problems all land in the Result so callers apply
// one contract everywhere.
package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// LaunchFailureCode is the synthetic exit code reported when the process
// could not be started at all (binary missing, permission denied) or was
// killed by the invocation timeout.
const LaunchFailureCode = 254

// Options configures a single invocation.
type Options struct {
	// Dir is the working directory, empty for the caller's.
	Dir string

	// Timeout bounds the invocation. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration
}

// Result is the captured outcome of one invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the tool exited zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Output returns the most useful diagnostic stream: stderr when present,
// stdout otherwise. Both are trimmed.
func (r Result) Output() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}

// AlreadyExists reports whether a failed invocation failed only because the
// resource it tried to create is already present. kubectl prints the phrase
// on stderr but callers should not depend on which stream a tool chose.
func (r Result) AlreadyExists() bool {
	if r.Success() {
		return false
	}
	combined := strings.ToLower(r.Stdout + r.Stderr)
	return strings.Contains(combined, "already exists")
}

// Runner executes an argv and captures its outcome.
type Runner interface {
	Run(ctx context.Context, argv []string, opts Options) Result
}

// LocalRunner executes tools as local subprocesses.
type LocalRunner struct{}

// NewLocalRunner creates a runner for local subprocess execution.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run executes argv[0] with the remaining arguments. Tool failures are
// reported through the Result, never as a panic or surprise: a process that
// could not be launched gets LaunchFailureCode with the launch error in
// Stderr.
func (r *LocalRunner) Run(ctx context.Context, argv []string, opts Options) Result {
	if len(argv) == 0 {
		return Result{ExitCode: LaunchFailureCode, Stderr: "empty command"}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// #nosec G204 - argv is assembled by internal clients, not user input
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = opts.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err == nil {
		return res
	}

	if ctx.Err() != nil {
		res.ExitCode = LaunchFailureCode
		res.Stderr = appendDiagnostic(res.Stderr, "command aborted: "+ctx.Err().Error())
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res
	}

	res.ExitCode = LaunchFailureCode
	res.Stderr = appendDiagnostic(res.Stderr, err.Error())
	return res
}

func appendDiagnostic(existing, diag string) string {
	if existing == "" {
		return diag
	}
	return existing + "\n" + diag
}

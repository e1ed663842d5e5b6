package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout is the hard wall-clock budget for a single tool run.
const DefaultTimeout = 300 * time.Second

// Command describes one external tool invocation.
type Command struct {
	Path    string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// Result is the structured outcome of a tool run. A Result is produced in
// all cases, nonzero exits and timeouts included; only downstream parsing
// decides whether the run contributed findings.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Run executes cmd with a bounded wall clock and captures its output.
// It never returns an error: a nonzero exit keeps the captured output and
// exit code, a timeout is reported as ExitCode -1 with empty stdout and a
// diagnostic on stderr, and a spawn failure (missing binary) likewise.
// One slow or crashing tool must not abort the whole pipeline.
func Run(ctx context.Context, cmd Command) Result {
	timeout := cmd.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	if cmd.Env != nil {
		c.Env = cmd.Env
	}
	// don't wait on grandchildren holding the pipes open after the kill
	c.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	started := time.Now()
	err := c.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(started),
	}

	if err == nil {
		return res
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{
			Stderr:   fmt.Sprintf("command timed out after %s", timeout),
			ExitCode: -1,
			TimedOut: true,
			Duration: res.Duration,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res
	}

	// spawn failure, e.g. binary not installed
	res.ExitCode = -1
	res.Stderr = fmt.Sprintf("executing command: %v", err)
	return res
}

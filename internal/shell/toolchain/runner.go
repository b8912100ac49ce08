// Package toolchain invokes the external tools a service needs after its
// files are written: package managers, project scaffolders, version probes.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// ExitTimeout is the exit code reported for a command killed by its timeout.
const ExitTimeout = 124

// waitDelay bounds how long Run waits for output pipes after the command is
// killed; descendants that inherited them may still hold them open.
const waitDelay = time.Second

// CmdResult holds the result of a command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunOpts holds optional parameters for command execution.
type RunOpts struct {
	Dir string            // working directory (optional)
	Env map[string]string // extra environment variables (overlay)
}

// Runner runs external commands.
type Runner interface {
	// Run executes a command and returns the result.
	// Returns CmdResult with ExitCode set if the process exits (even non-zero).
	// Returns error only for execution failures (binary not found, ctx canceled, io failure).
	Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error)
}

// ExecRunner is the os/exec implementation of Runner.
type ExecRunner struct {
	// Timeout bounds each command; zero means no limit beyond ctx.
	Timeout time.Duration
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// Run executes the command and captures stdout/stderr.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	if len(opts.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	err := cmd.Run()

	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.ExitCode = ExitTimeout
		return result, nil
	}

	if err != nil {
		// Process ran but exited non-zero
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// Binary not found, ctx canceled, etc.
		return result, err
	}

	return result, nil
}

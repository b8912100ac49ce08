package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mattn/go-shellwords"
)

// =============================================================================
// Failure Policy
// =============================================================================

// Policy decides what a failed tool invocation does to the run.
type Policy string

const (
	// PolicyWarn records the failure, logs it and continues.
	PolicyWarn Policy = "warn"

	// PolicyAbort fails the run.
	PolicyAbort Policy = "abort"
)

// ParsePolicy parses a policy name; empty selects PolicyWarn.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyWarn:
		return PolicyWarn, nil
	case PolicyAbort:
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("%w: %q (want warn or abort)", ErrInvalidPolicy, s)
}

// =============================================================================
// Invoker
// =============================================================================

// Invoker runs tools for services and applies the failure policy. A failure
// is never treated as success: under PolicyWarn it is kept in Warnings.
type Invoker struct {
	runner   Runner
	policy   Policy
	logger   *slog.Logger
	warnings []*ToolError
}

// NewInvoker creates an Invoker.
func NewInvoker(runner Runner, policy Policy, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == "" {
		policy = PolicyWarn
	}
	return &Invoker{runner: runner, policy: policy, logger: logger}
}

// Invoke runs argv in dir on behalf of service.
func (i *Invoker) Invoke(ctx context.Context, service, dir string, argv []string) error {
	if len(argv) == 0 {
		return nil
	}
	command := strings.Join(argv, " ")
	i.logger.Info("running tool", "service", service, "command", command)

	res, err := i.runner.Run(ctx, argv[0], argv[1:], RunOpts{Dir: dir})
	if err == nil && res.ExitCode == 0 {
		return nil
	}

	terr := &ToolError{
		Service:  service,
		Command:  command,
		ExitCode: res.ExitCode,
		Stderr:   res.Stderr,
		Err:      err,
	}

	if i.policy == PolicyAbort {
		return terr
	}

	i.logger.Warn("tool failed, continuing",
		"service", service,
		"command", command,
		"exit_code", res.ExitCode,
		"error", terr.Error(),
	)
	i.warnings = append(i.warnings, terr)
	return nil
}

// Warnings returns the failures recorded under PolicyWarn.
func (i *Invoker) Warnings() []*ToolError {
	out := make([]*ToolError, len(i.warnings))
	copy(out, i.warnings)
	return out
}

// =============================================================================
// Version Probes
// =============================================================================

var pythonVersionRegex = regexp.MustCompile(`Python (\d+)\.(\d+)`)

// PythonVersionProbe is the command line used to find the host Python.
const PythonVersionProbe = "python3 --version"

// DetectPythonVersion returns the MAJOR.MINOR version of the host Python.
//
// Example:
//
//	// python3 --version prints "Python 3.12.4"
//	DetectPythonVersion(ctx, runner) // "3.12", nil
func DetectPythonVersion(ctx context.Context, runner Runner) (string, error) {
	argv, err := shellwords.Parse(PythonVersionProbe)
	if err != nil {
		return "", err
	}
	res, err := runner.Run(ctx, argv[0], argv[1:], RunOpts{})
	if err != nil {
		return "", &ToolError{Command: PythonVersionProbe, Err: err}
	}
	if res.ExitCode != 0 {
		return "", &ToolError{Command: PythonVersionProbe, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	// Python 2 printed its version on stderr
	m := pythonVersionRegex.FindStringSubmatch(res.Stdout + res.Stderr)
	if m == nil {
		return "", fmt.Errorf("%w: unexpected output %q", ErrToolFailed, strings.TrimSpace(res.Stdout))
	}
	return m[1] + "." + m[2], nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/artpar/stackgen/internal/core/service"
	"github.com/artpar/stackgen/internal/shell/docker"
	"github.com/artpar/stackgen/internal/shell/generator"
	"github.com/artpar/stackgen/internal/shell/toolchain"
	"github.com/artpar/stackgen/internal/shell/workspace"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess       = 0
	ExitConfigError   = 1
	ExitGenerateError = 2
	ExitDockerError   = 3
	ExitToolError     = 4
)

// =============================================================================
// Generate
// =============================================================================

// Generate builds the configured services and runs one generation into
// cfg.OutputDir.
func Generate(ctx context.Context, cfg *Config, logger *slog.Logger) (*generator.Result, error) {
	specs := cfg.ServiceSpecs()
	services, err := service.Build(specs)
	if err != nil {
		return nil, &CommandError{Op: "build services", Err: err, ExitCode: ExitConfigError}
	}

	ws, err := workspace.NewOS(cfg.OutputDir)
	if err != nil {
		return nil, &CommandError{Op: "open output directory", Err: err, ExitCode: ExitConfigError}
	}

	vars := map[string]string{}
	var opts []generator.Option
	opts = append(opts, generator.WithLogger(logger))

	// Without a runner no tools run and the python version is not probed.
	var runner toolchain.Runner
	if cfg.Toolchain.Enabled {
		policy, err := toolchain.ParsePolicy(cfg.Toolchain.OnFailure)
		if err != nil {
			return nil, &CommandError{Op: "parse tool policy", Err: err, ExitCode: ExitConfigError}
		}
		exec := toolchain.NewExecRunner(cfg.Toolchain.Timeout)
		runner = exec
		opts = append(opts, generator.WithInvoker(toolchain.NewInvoker(exec, policy, logger)))
	}
	vars["python_version"] = generator.ResolvePythonVersion(ctx, cfg.Toolchain.PythonVersion, runner, logger)

	if cfg.Images.Pull {
		cli, err := docker.NewDockerClient(ctx, cfg.Images.DockerHost)
		if err != nil {
			return nil, &CommandError{Op: "connect to docker", Err: err, ExitCode: ExitDockerError}
		}
		defer cli.Close()
		opts = append(opts, generator.WithDockerClient(cli))
	}

	gen := generator.New(generator.Config{
		Project:     cfg.ProjectName(),
		EnvNames:    cfg.EnvNames,
		Vars:        vars,
		ComposeFile: cfg.Compose.File,
		EnvFile:     cfg.Compose.EnvFile,
		Verify:      cfg.Compose.Verify,
		PullImages:  cfg.Images.Pull,
		PullOptions: docker.PullOptions{Platform: cfg.Images.Platform},
	}, ws, opts...)

	result, err := gen.Run(ctx, services)
	if err != nil {
		return nil, &CommandError{Op: "generate", Err: err, ExitCode: exitCodeFor(err)}
	}
	return result, nil
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, toolchain.ErrToolFailed):
		return ExitToolError
	case errors.Is(err, docker.ErrImagePullFailed), errors.Is(err, docker.ErrConnectionFailed):
		return ExitDockerError
	default:
		return ExitGenerateError
	}
}

// =============================================================================
// Command Error
// =============================================================================

// CommandError represents an error during a command.
type CommandError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

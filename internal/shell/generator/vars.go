package generator

import (
	"context"
	"log/slog"

	"github.com/artpar/stackgen/internal/shell/toolchain"
)

// DefaultPythonVersion is used when the host Python cannot be found.
const DefaultPythonVersion = "3.12"

// ResolvePythonVersion returns the configured version, else the version of
// the host's python3, else DefaultPythonVersion.
func ResolvePythonVersion(ctx context.Context, configured string, runner toolchain.Runner, logger *slog.Logger) string {
	if configured != "" {
		return configured
	}
	if runner == nil {
		return DefaultPythonVersion
	}
	if logger == nil {
		logger = slog.Default()
	}
	v, err := toolchain.DetectPythonVersion(ctx, runner)
	if err != nil {
		logger.Warn("could not detect python version, using default",
			"default", DefaultPythonVersion,
			"error", err,
		)
		return DefaultPythonVersion
	}
	logger.Debug("detected python version", "version", v)
	return v
}

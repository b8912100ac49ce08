package docker

import (
	"context"
	"log/slog"
)

// =============================================================================
// Image Pre-Pull
// =============================================================================

// PullResult records what happened to each image.
type PullResult struct {
	Pulled  []string
	Present []string
}

// EnsureImages pulls every image not yet present locally, in order, skipping
// repeats. The first failure stops the pull.
func EnsureImages(ctx context.Context, cli Client, images []string, opts PullOptions, logger *slog.Logger) (PullResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var result PullResult
	seen := make(map[string]bool, len(images))

	for _, img := range images {
		if img == "" || seen[img] {
			continue
		}
		seen[img] = true

		exists, err := cli.ImageExists(ctx, img)
		if err != nil {
			return result, err
		}
		if exists {
			logger.Debug("image already present", "image", img)
			result.Present = append(result.Present, img)
			continue
		}

		logger.Info("pulling image", "image", img)
		if err := cli.PullImage(ctx, img, opts); err != nil {
			return result, err
		}
		result.Pulled = append(result.Pulled, img)
	}

	return result, nil
}

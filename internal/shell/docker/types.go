package docker

import "context"

// PullOptions defines options for pulling images.
type PullOptions struct {
	Platform string // e.g., "linux/amd64"
}

// =============================================================================
// Client Interface
// =============================================================================

// Client is the part of the Docker API the generator uses.
type Client interface {
	PullImage(ctx context.Context, image string, opts PullOptions) error
	ImageExists(ctx context.Context, image string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

var _ Client = (*DockerClient)(nil)

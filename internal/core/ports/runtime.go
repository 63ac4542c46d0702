package ports

import (
	"context"

	"github.com/melih/composedeck/internal/core/domain"
)

// ContainerRuntime defines the container daemon operations the inventory needs.
// This interface allows us to switch between Docker, Podman, or another engine
// without changing the reconciliation logic.
type ContainerRuntime interface {
	ListImages(ctx context.Context) ([]domain.Image, error)
	// ListContainers returns containers in every state, not only running ones.
	ListContainers(ctx context.Context) ([]domain.Container, error)
	CreateContainer(ctx context.Context, spec domain.ContainerSpec) (string, error)
	StartContainer(ctx context.Context, id string) error
	// StopContainer stops a container using the runtime's default grace period.
	StopContainer(ctx context.Context, id string) error
	// PullImage blocks until the pull has completed or failed.
	PullImage(ctx context.Context, image string) error
	// ContainerLogs returns the last tail lines of combined stdout and stderr.
	ContainerLogs(ctx context.Context, id string, tail int) (string, error)
	Ping(ctx context.Context) error
}

// ContainerMatcher decides whether a runtime container belongs to a compose
// service of a client. Naming schemes differ between runtimes and compose
// versions, so the rule is swappable.
type ContainerMatcher interface {
	Matches(c domain.Container, client, service string) bool
}

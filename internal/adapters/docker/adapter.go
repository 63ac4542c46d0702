package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/melih/composedeck/internal/core/domain"
)

// Adapter implements ports.ContainerRuntime using Docker SDK
type Adapter struct {
	cli *client.Client
}

// NewAdapter creates a new Docker adapter instance. The caller owns the
// connection and must Close it.
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

// Close releases the daemon connection.
func (a *Adapter) Close() error {
	return a.cli.Close()
}

// Ping checks that the daemon is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	if _, err := a.cli.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach docker daemon: %w", err)
	}
	return nil
}

// ListImages returns all local images with their repo tags
func (a *Adapter) ListImages(ctx context.Context) ([]domain.Image, error) {
	images, err := a.cli.ImageList(ctx, types.ImageListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	result := make([]domain.Image, 0, len(images))
	for _, img := range images {
		result = append(result, domain.Image{ID: img.ID, RepoTags: img.RepoTags})
	}
	return result, nil
}

// ListContainers returns containers in every state
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.Container, error) {
	containers, err := a.cli.ContainerList(ctx, types.ContainerListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]domain.Container, 0, len(containers))
	for _, c := range containers {
		result = append(result, domain.Container{
			ID:     c.ID,
			Names:  c.Names,
			Image:  c.Image,
			State:  c.State,
			Labels: c.Labels,
		})
	}
	return result, nil
}

// CreateContainer creates (but does not start) a named container publishing its declared ports
func (a *Adapter) CreateContainer(ctx context.Context, spec domain.ContainerSpec) (string, error) {
	exposed, bindings, err := portBindings(spec.Ports)
	if err != nil {
		return "", err
	}

	resp, err := a.cli.ContainerCreate(ctx, &container.Config{
		Image:        spec.Image,
		ExposedPorts: exposed,
		Labels:       spec.Labels,
	}, &container.HostConfig{
		PortBindings: bindings,
	}, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}
	return resp.ID, nil
}

// StartContainer starts a created container
func (a *Adapter) StartContainer(ctx context.Context, id string) error {
	if err := a.cli.ContainerStart(ctx, id, types.ContainerStartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	return nil
}

// StopContainer stops a container with the daemon's default timeout
func (a *Adapter) StopContainer(ctx context.Context, id string) error {
	if err := a.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// PullImage pulls an image and waits for the progress stream to finish.
// An error message anywhere in the stream fails the pull.
func (a *Adapter) PullImage(ctx context.Context, image string) error {
	reader, err := a.cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer reader.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(reader, io.Discard, 0, false, nil); err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	return nil
}

// ContainerLogs returns the last tail lines of a container's output
func (a *Adapter) ContainerLogs(ctx context.Context, id string, tail int) (string, error) {
	info, err := a.cli.ContainerInspect(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to inspect container: %w", err)
	}

	logs, err := a.cli.ContainerLogs(ctx, id, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     false,
		Timestamps: true,
		Tail:       strconv.Itoa(tail),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read container logs: %w", err)
	}
	defer logs.Close()

	// Without a TTY the daemon multiplexes stdout and stderr into one stream.
	var buf bytes.Buffer
	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(&buf, logs)
	} else {
		_, err = stdcopy.StdCopy(&buf, &buf, logs)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read container logs: %w", err)
	}
	return buf.String(), nil
}

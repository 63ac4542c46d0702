package inventory

import (
	"context"
	"strings"

	"github.com/melih/composedeck/internal/core/domain"
	"github.com/melih/composedeck/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// Resolver derives a service's status from the runtime. Any query failure
// resolves to missing; an unreachable runtime is never reported as running.
type Resolver struct {
	runtime ports.ContainerRuntime
	matcher ports.ContainerMatcher
	log     *logrus.Entry
}

func NewResolver(runtime ports.ContainerRuntime, matcher ports.ContainerMatcher, log *logrus.Entry) *Resolver {
	return &Resolver{runtime: runtime, matcher: matcher, log: log.WithField("component", "resolver")}
}

// Resolve queries the runtime for a single service. Containers are not
// listed when the image is missing.
func (r *Resolver) Resolve(ctx context.Context, client, image, service string) domain.Status {
	images, err := r.runtime.ListImages(ctx)
	if err != nil {
		r.queryFailed(err, "images")
		return domain.StatusMissing
	}
	if !imagePresent(images, image) {
		return domain.StatusMissing
	}

	containers, err := r.runtime.ListContainers(ctx)
	if err != nil {
		r.queryFailed(err, "containers")
		return domain.StatusMissing
	}
	return containerStatus(r.matcher, containers, client, service)
}

// Snapshot captures the runtime's images and containers once so that many
// services can be resolved without further queries.
func (r *Resolver) Snapshot(ctx context.Context) *Snapshot {
	s := &Snapshot{matcher: r.matcher}

	images, err := r.runtime.ListImages(ctx)
	if err != nil {
		r.queryFailed(err, "images")
		s.failed = true
		return s
	}
	containers, err := r.runtime.ListContainers(ctx)
	if err != nil {
		r.queryFailed(err, "containers")
		s.failed = true
		return s
	}
	s.images, s.containers = images, containers
	return s
}

func (r *Resolver) queryFailed(err error, what string) {
	runtimeQueryErrors.Inc()
	r.log.WithError(err).Warnf("Failed to list %s, reporting services as missing", what)
}

// Snapshot is a point-in-time view of the runtime.
type Snapshot struct {
	matcher    ports.ContainerMatcher
	images     []domain.Image
	containers []domain.Container
	failed     bool
}

// Status resolves a service against the snapshot.
func (s *Snapshot) Status(client, image, service string) domain.Status {
	if s.failed || !imagePresent(s.images, image) {
		return domain.StatusMissing
	}
	return containerStatus(s.matcher, s.containers, client, service)
}

// imagePresent reports whether image equals a local tag or names a tag of it,
// so "nginx" matches "nginx:latest" and "nginx:1.25".
func imagePresent(images []domain.Image, image string) bool {
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == image || strings.HasPrefix(tag, image+":") {
				return true
			}
		}
	}
	return false
}

func containerStatus(m ports.ContainerMatcher, containers []domain.Container, client, service string) domain.Status {
	c, ok := findContainer(m, containers, client, service)
	if !ok || c.State != domain.StateRunning {
		return domain.StatusStopped
	}
	return domain.StatusRunning
}

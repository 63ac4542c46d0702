package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/melih/composedeck/internal/compose"
	"github.com/melih/composedeck/internal/core/domain"
	"github.com/melih/composedeck/internal/core/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Reconciler implements ports.InventoryService.
type Reconciler struct {
	loader      ports.ComposeLoader
	resolver    *Resolver
	concurrency int
	log         *logrus.Entry
}

// NewReconciler creates a reconciler that loads at most concurrency clients
// at a time when listing.
func NewReconciler(loader ports.ComposeLoader, resolver *Resolver, concurrency int, log *logrus.Entry) *Reconciler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Reconciler{
		loader:      loader,
		resolver:    resolver,
		concurrency: concurrency,
		log:         log.WithField("component", "reconciler"),
	}
}

// ReconcileClient returns the client's services in declaration order. A
// client without a usable compose file has no services.
func (r *Reconciler) ReconcileClient(ctx context.Context, client string) ([]domain.Service, error) {
	project, err := r.loader.Load(client)
	if err != nil {
		return nil, err
	}
	if project == nil || len(project.Services) == 0 {
		return []domain.Service{}, nil
	}

	start := time.Now()
	services := assemble(client, project, r.resolver.Snapshot(ctx))
	reconcileDuration.Observe(time.Since(start).Seconds())
	return services, nil
}

// ReconcileService resolves a single declared service.
func (r *Reconciler) ReconcileService(ctx context.Context, client, service string) (domain.Service, error) {
	project, err := r.loader.Load(client)
	if err != nil {
		return domain.Service{}, err
	}
	def, ok := project.Service(service)
	if !ok {
		return domain.Service{}, fmt.Errorf("%w: service %s in %s", domain.ErrNotFound, service, client)
	}
	return domain.Service{
		Name:   def.Name,
		Image:  def.Image,
		Ports:  compose.FormatPorts(def.Ports),
		Status: r.resolver.Resolve(ctx, client, def.Image, def.Name),
	}, nil
}

// ListClients reconciles every client directory and omits clients without
// services. A client that fails to load counts as having none. The runtime
// is queried once for the whole listing.
func (r *Reconciler) ListClients(ctx context.Context) ([]domain.Client, error) {
	names, err := r.loader.Clients()
	if err != nil {
		return nil, err
	}
	clients := make([]domain.Client, 0, len(names))
	if len(names) == 0 {
		return clients, nil
	}

	projects := make([]*compose.Project, len(names))
	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)
	for i, name := range names {
		g.Go(func() error {
			p, err := r.loader.Load(name)
			if err != nil {
				r.log.WithError(err).WithField("client", name).Warn("Skipping client")
				return nil
			}
			projects[i] = p
			return nil
		})
	}
	_ = g.Wait()

	start := time.Now()
	var snap *Snapshot
	for i, name := range names {
		if projects[i] == nil || len(projects[i].Services) == 0 {
			continue
		}
		if snap == nil {
			snap = r.resolver.Snapshot(ctx)
		}
		clients = append(clients, domain.Client{Name: name, Services: assemble(name, projects[i], snap)})
	}
	reconcileDuration.Observe(time.Since(start).Seconds())

	r.log.WithField("clients", len(clients)).Debug("Reconciled clients")
	return clients, nil
}

func assemble(client string, project *compose.Project, snap *Snapshot) []domain.Service {
	services := make([]domain.Service, 0, len(project.Services))
	for _, def := range project.Services {
		services = append(services, domain.Service{
			Name:   def.Name,
			Image:  def.Image,
			Ports:  compose.FormatPorts(def.Ports),
			Status: snap.Status(client, def.Image, def.Name),
		})
	}
	return services
}

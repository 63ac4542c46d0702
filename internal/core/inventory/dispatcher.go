package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/melih/composedeck/internal/compose"
	"github.com/melih/composedeck/internal/core/domain"
	"github.com/melih/composedeck/internal/core/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultLogTail is the number of log lines returned when none is configured.
const DefaultLogTail = 200

// Dispatcher implements ports.ActionService.
//
// Identical actions on the same service that overlap in time are collapsed
// into one runtime call; every caller receives that call's result. This keeps
// two concurrent starts from racing to create the same container.
type Dispatcher struct {
	loader  ports.ComposeLoader
	runtime ports.ContainerRuntime
	matcher ports.ContainerMatcher
	logTail int
	log     *logrus.Entry
	flights singleflight.Group
}

func NewDispatcher(loader ports.ComposeLoader, runtime ports.ContainerRuntime, matcher ports.ContainerMatcher, logTail int, log *logrus.Entry) *Dispatcher {
	if logTail <= 0 {
		logTail = DefaultLogTail
	}
	return &Dispatcher{
		loader:  loader,
		runtime: runtime,
		matcher: matcher,
		logTail: logTail,
		log:     log.WithField("component", "dispatcher"),
	}
}

// Start creates and starts a container for the service from its compose definition.
func (d *Dispatcher) Start(ctx context.Context, client, service string) (domain.ActionResult, error) {
	return d.dispatch(domain.ActionStart, client, service, func() (domain.ActionResult, error) {
		def, err := d.definition(client, service)
		if err != nil {
			return domain.ActionResult{}, err
		}

		spec := domain.ContainerSpec{
			Name:  service,
			Image: def.Image,
			Ports: compose.FormatPorts(def.Ports),
			Labels: map[string]string{
				domain.LabelComposeProject: client,
				domain.LabelComposeService: service,
			},
		}
		id, err := d.runtime.CreateContainer(ctx, spec)
		if err != nil {
			return failed(domain.ActionStart, service, fmt.Sprintf("Failed to start %s", service), err), nil
		}
		if err := d.runtime.StartContainer(ctx, id); err != nil {
			return failed(domain.ActionStart, service, fmt.Sprintf("Failed to start %s", service), err), nil
		}
		return succeeded(domain.ActionStart, service, fmt.Sprintf("Container %s started successfully", service)), nil
	})
}

// Stop stops the first container matching the service.
func (d *Dispatcher) Stop(ctx context.Context, client, service string) (domain.ActionResult, error) {
	return d.dispatch(domain.ActionStop, client, service, func() (domain.ActionResult, error) {
		if err := domain.ValidateClientName(client); err != nil {
			return domain.ActionResult{}, err
		}
		containers, err := d.runtime.ListContainers(ctx)
		if err != nil {
			return failed(domain.ActionStop, service, fmt.Sprintf("Failed to stop %s", service), err), nil
		}
		c, ok := findContainer(d.matcher, containers, client, service)
		if !ok {
			return domain.ActionResult{}, fmt.Errorf("%w: container for service %s", domain.ErrNotFound, service)
		}
		if err := d.runtime.StopContainer(ctx, c.ID); err != nil {
			return failed(domain.ActionStop, service, fmt.Sprintf("Failed to stop %s", service), err), nil
		}
		return succeeded(domain.ActionStop, service, fmt.Sprintf("Container %s stopped successfully", service)), nil
	})
}

// Fetch pulls the service's image and returns once the pull has finished.
func (d *Dispatcher) Fetch(ctx context.Context, client, service string) (domain.ActionResult, error) {
	return d.dispatch(domain.ActionFetch, client, service, func() (domain.ActionResult, error) {
		def, err := d.definition(client, service)
		if err != nil {
			return domain.ActionResult{}, err
		}
		if err := d.runtime.PullImage(ctx, def.Image); err != nil {
			return failed(domain.ActionFetch, service, fmt.Sprintf("Failed to fetch image for %s", service), err), nil
		}
		return succeeded(domain.ActionFetch, service, fmt.Sprintf("Image for %s fetched successfully", service)), nil
	})
}

// Logs returns the most recent output of the service's container.
func (d *Dispatcher) Logs(ctx context.Context, client, service string) (string, error) {
	if err := domain.ValidateClientName(client); err != nil {
		return "", err
	}
	containers, err := d.runtime.ListContainers(ctx)
	if err != nil {
		return "", err
	}
	c, ok := findContainer(d.matcher, containers, client, service)
	if !ok {
		return "", fmt.Errorf("%w: container for service %s", domain.ErrNotFound, service)
	}
	return d.runtime.ContainerLogs(ctx, c.ID, d.logTail)
}

// definition looks up a loaded service. Services skipped at load time, such
// as build-only ones, are not found.
func (d *Dispatcher) definition(client, service string) (compose.Service, error) {
	project, err := d.loader.Load(client)
	if err != nil {
		return compose.Service{}, err
	}
	def, ok := project.Service(service)
	if !ok {
		return compose.Service{}, fmt.Errorf("%w: service %s in %s", domain.ErrNotFound, service, client)
	}
	return def, nil
}

func (d *Dispatcher) dispatch(action domain.Action, client, service string, fn func() (domain.ActionResult, error)) (domain.ActionResult, error) {
	log := d.log.WithFields(logrus.Fields{"action": action, "client": client, "service": service})
	key := string(action) + "\x00" + client + "\x00" + service

	v, err, shared := d.flights.Do(key, func() (interface{}, error) {
		res, err := fn()
		switch {
		case errors.Is(err, domain.ErrNotFound):
			actionsTotal.WithLabelValues(string(action), "not_found").Inc()
			log.Info("Action target not found")
		case err != nil:
			actionsTotal.WithLabelValues(string(action), "invalid").Inc()
		case res.Success:
			actionsTotal.WithLabelValues(string(action), "success").Inc()
			log.Info(res.Message)
		default:
			actionsTotal.WithLabelValues(string(action), "failure").Inc()
			log.Error(res.Message)
		}
		return res, err
	})
	if shared {
		log.Debug("Joined in-flight action")
	}
	if err != nil {
		return domain.ActionResult{}, err
	}
	return v.(domain.ActionResult), nil
}

func succeeded(action domain.Action, service, msg string) domain.ActionResult {
	return domain.ActionResult{Name: service, Action: action, Success: true, Message: msg}
}

func failed(action domain.Action, service, prefix string, err error) domain.ActionResult {
	return domain.ActionResult{Name: service, Action: action, Success: false, Message: prefix + ": " + err.Error()}
}

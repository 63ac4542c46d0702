package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/melih/composedeck/internal/core/domain"
	"github.com/melih/composedeck/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the container runtime is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ClientHandler struct {
	inventory ports.InventoryService
	actions   ports.ActionService
	source    ports.ComposeSource
	runtime   Pinger
	log       *logrus.Entry
}

func NewClientHandler(inventory ports.InventoryService, actions ports.ActionService, source ports.ComposeSource, runtime Pinger, log *logrus.Entry) *ClientHandler {
	return &ClientHandler{
		inventory: inventory,
		actions:   actions,
		source:    source,
		runtime:   runtime,
		log:       log.WithField("component", "http"),
	}
}

func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.inventory.ListClients(c.UserContext())
	if err != nil {
		h.log.WithError(err).Error("Error getting clients")
		return fail(c, err, "Failed to fetch clients")
	}
	return c.JSON(clients)
}

func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	client := c.Params("clientName")
	services, err := h.inventory.ReconcileClient(c.UserContext(), client)
	if err != nil {
		h.log.WithError(err).WithField("client", client).Error("Error getting services")
		return fail(c, err, fmt.Sprintf("Failed to fetch services for %s", client))
	}
	return c.JSON(services)
}

// RefreshClient re-reads the client; it exists so the UI can force a reload with POST.
func (h *ClientHandler) RefreshClient(c *fiber.Ctx) error {
	client := c.Params("clientName")
	services, err := h.inventory.ReconcileClient(c.UserContext(), client)
	if err != nil {
		h.log.WithError(err).WithField("client", client).Error("Error refreshing client")
		return fail(c, err, fmt.Sprintf("Failed to refresh %s", client))
	}
	return c.JSON(services)
}

type CreateClientRequest struct {
	Name    string `json:"name"`
	RepoURL string `json:"repo_url"`
}

// CreateClient provisions a client directory from a git repository.
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var req CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.Name == "" || req.RepoURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Client name and repo_url are required",
		})
	}

	if err := h.source.Clone(c.UserContext(), req.Name, req.RepoURL); err != nil {
		h.log.WithError(err).WithField("client", req.Name).Error("Error cloning client")
		return fail(c, err, fmt.Sprintf("Failed to create %s: %v", req.Name, err))
	}

	services, err := h.inventory.ReconcileClient(c.UserContext(), req.Name)
	if err != nil {
		return fail(c, err, fmt.Sprintf("Failed to fetch services for %s", req.Name))
	}
	return c.Status(fiber.StatusCreated).JSON(domain.Client{Name: req.Name, Services: services})
}

// SyncClient pulls the client's compose repository, then reconciles it.
func (h *ClientHandler) SyncClient(c *fiber.Ctx) error {
	client := c.Params("clientName")
	if err := h.source.Sync(c.UserContext(), client); err != nil {
		h.log.WithError(err).WithField("client", client).Error("Error syncing client")
		return fail(c, err, fmt.Sprintf("Failed to sync %s: %v", client, err))
	}

	services, err := h.inventory.ReconcileClient(c.UserContext(), client)
	if err != nil {
		return fail(c, err, fmt.Sprintf("Failed to refresh %s", client))
	}
	return c.JSON(services)
}

func (h *ClientHandler) GetService(c *fiber.Ctx) error {
	client, service := c.Params("clientName"), c.Params("serviceName")
	svc, err := h.inventory.ReconcileService(c.UserContext(), client, service)
	if err != nil {
		return fail(c, err, fmt.Sprintf("Failed to fetch %s: %v", service, err))
	}
	return c.JSON(svc)
}

func (h *ClientHandler) StartService(c *fiber.Ctx) error {
	res, err := h.actions.Start(c.UserContext(), c.Params("clientName"), c.Params("serviceName"))
	return actionResponse(c, res, err)
}

func (h *ClientHandler) StopService(c *fiber.Ctx) error {
	res, err := h.actions.Stop(c.UserContext(), c.Params("clientName"), c.Params("serviceName"))
	return actionResponse(c, res, err)
}

func (h *ClientHandler) FetchService(c *fiber.Ctx) error {
	res, err := h.actions.Fetch(c.UserContext(), c.Params("clientName"), c.Params("serviceName"))
	return actionResponse(c, res, err)
}

// ToggleService runs the action the dashboard offers for the service's
// current status: stop a running service, start a stopped one, fetch a
// missing image.
func (h *ClientHandler) ToggleService(c *fiber.Ctx) error {
	ctx := c.UserContext()
	client, service := c.Params("clientName"), c.Params("serviceName")

	svc, err := h.inventory.ReconcileService(ctx, client, service)
	if err != nil {
		return fail(c, err, fmt.Sprintf("Failed to fetch %s: %v", service, err))
	}

	var res domain.ActionResult
	switch svc.Status {
	case domain.StatusRunning:
		res, err = h.actions.Stop(ctx, client, service)
	case domain.StatusStopped:
		res, err = h.actions.Start(ctx, client, service)
	default:
		res, err = h.actions.Fetch(ctx, client, service)
	}
	return actionResponse(c, res, err)
}

func (h *ClientHandler) ServiceLogs(c *fiber.Ctx) error {
	client, service := c.Params("clientName"), c.Params("serviceName")
	logs, err := h.actions.Logs(c.UserContext(), client, service)
	if err != nil {
		return fail(c, err, fmt.Sprintf("Failed to read logs for %s: %v", service, err))
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(logs)
}

func (h *ClientHandler) Health(c *fiber.Ctx) error {
	if err := h.runtime.Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func actionResponse(c *fiber.Ctx, res domain.ActionResult, err error) error {
	if err != nil {
		return fail(c, err, err.Error())
	}
	if !res.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   res.Message,
		})
	}
	return c.JSON(res)
}

// fail writes the error envelope, choosing the status from the error kind.
func fail(c *fiber.Ctx, err error, msg string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidClientName):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrClientExists):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

package http

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/melih/composedeck/internal/core/domain"
	"github.com/melih/composedeck/internal/core/ports"
)

// ProxyHandler forwards requests to a running service's first published port.
type ProxyHandler struct {
	inventory ports.InventoryService
	host      string
}

// NewProxyHandler creates a proxy that dials published ports on host
// unless a port is bound to a specific address.
func NewProxyHandler(inventory ports.InventoryService, host string) *ProxyHandler {
	return &ProxyHandler{inventory: inventory, host: host}
}

// ProxyRequest serves /proxy/:clientName/:serviceName/* by stripping the
// prefix and forwarding the rest of the path to the service.
func (h *ProxyHandler) ProxyRequest(c *fiber.Ctx) error {
	client, service := c.Params("clientName"), c.Params("serviceName")

	svc, err := h.inventory.ReconcileService(c.UserContext(), client, service)
	if err != nil {
		return fail(c, err, fmt.Sprintf("Failed to fetch %s: %v", service, err))
	}
	if svc.Status != domain.StatusRunning {
		return c.Status(fiber.StatusServiceUnavailable).SendString(fmt.Sprintf("Service '%s' is not running", service))
	}
	host, port, ok := publishedPort(svc.Ports)
	if !ok {
		return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("Service '%s' publishes no ports", service))
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = h.host
	}

	remote, err := url.Parse("http://" + net.JoinHostPort(host, port))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Invalid target URL")
	}
	path := "/" + c.Params("*")

	proxy := httputil.NewSingleHostReverseProxy(remote)

	// Rewrite Host and path so the service sees requests as if addressed to it directly.
	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = remote.Host
		req.URL.Path = path
		req.URL.RawPath = ""
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, "Proxy Info: target=%s error=%v", remote.Host, err)
	}

	return adaptor.HTTPHandler(proxy)(c)
}

// publishedPort returns the host side of the first single-port declaration.
func publishedPort(ports []string) (host, port string, ok bool) {
	for _, p := range ports {
		base, _, _ := strings.Cut(p, "/")
		parts := strings.Split(base, ":")
		switch len(parts) {
		case 1, 2:
			host, port = "", parts[0]
		case 3:
			host, port = parts[0], parts[1]
		default:
			continue
		}
		if _, err := strconv.Atoi(port); err == nil {
			return host, port, true
		}
	}
	return "", "", false
}

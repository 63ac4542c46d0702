package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the Fiber app with every route registered.
func NewRouter(h *ClientHandler, p *ProxyHandler, log *logrus.Entry) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "composedeck",
		DisableStartupMessage: true,
		// Route params are shared with in-flight actions, so they must outlive the request.
		Immutable: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New())
	app.Use(RequestLogger(log.WithField("component", "http")))

	app.Get("/healthz", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Routes for client inventory
	clients := api.Group("/clients")
	clients.Get("/", h.ListClients)
	clients.Post("/", h.CreateClient)
	clients.Get("/:clientName", h.GetClient)
	clients.Post("/:clientName/refresh", h.RefreshClient)
	clients.Post("/:clientName/sync", h.SyncClient)

	// Routes for service actions
	services := clients.Group("/:clientName/services")
	services.Get("/:serviceName", h.GetService)
	services.Get("/:serviceName/logs", h.ServiceLogs)
	services.Post("/:serviceName/start", h.StartService)
	services.Post("/:serviceName/stop", h.StopService)
	services.Post("/:serviceName/fetch", h.FetchService)
	services.Post("/:serviceName/toggle", h.ToggleService)

	app.All("/proxy/:clientName/:serviceName/*", p.ProxyRequest)

	return app
}

// Package api exposes the service over HTTP with fiber. All application
// routes live under /api; /health and /metrics sit at the root.
package api

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/logger"
	"github.com/julianstephens/sanctuary/internal/service"
)

// Config holds the HTTP-facing settings
type Config struct {
	AllowedOrigins     string
	RateLimitPerMinute int // 0 disables rate limiting
	BodyLimitKB        int
	AccessLog          bool
}

type handler struct {
	svc *service.Service
}

// New builds the fiber app. HTTP metrics are registered on reg and served at
// /metrics; a nil reg disables both.
func New(svc *service.Service, cfg Config, reg *prometheus.Registry) *fiber.App {
	bodyLimit := cfg.BodyLimitKB
	if bodyLimit <= 0 {
		bodyLimit = constants.DefaultBodyLimitKB
	}

	app := fiber.New(fiber.Config{
		AppName:               constants.AppName + " " + constants.Version,
		BodyLimit:             bodyLimit * 1024,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if cfg.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Output: logger.Writer(),
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}

	if reg != nil {
		prom := fiberprometheus.NewWithRegistry(reg, constants.AppName, "http", "", nil)
		prom.RegisterAt(app, "/metrics")
		app.Use(prom.Middleware)
	}

	origins := cfg.AllowedOrigins
	if origins == "" {
		origins = constants.DefaultAllowedOrigin
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	if cfg.RateLimitPerMinute > 0 {
		app.Use("/api", limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerMinute,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(errorBody{Error: "rate limit exceeded"})
			},
		}))
	}

	h := &handler{svc: svc}
	app.Get("/health", h.health)
	h.routes(app.Group("/api"))
	return app
}

func (h *handler) routes(api fiber.Router) {
	api.Get("/sanctuary", h.dashboard)

	api.Get("/energy", h.currentEnergy)
	api.Post("/energy/log", h.logEnergy)
	api.Get("/energy/logs", h.energyLogs)
	api.Get("/energy/patterns", h.energyPatterns)
	api.Get("/energy/insights", h.energyInsights)

	api.Get("/anchors", h.listAnchors)
	api.Post("/anchors", h.createAnchor)
	api.Patch("/anchors/:id/toggle", h.toggleAnchor)
	api.Delete("/anchors/:id", h.deleteAnchor)

	api.Get("/templates", h.listTemplates)
	api.Post("/templates", h.createTemplate)
	api.Get("/templates/:id/steps", h.templateSteps)
	api.Post("/template-steps", h.createTemplateStep)

	api.Get("/projects", h.listProjects)
	api.Post("/projects", h.createProject)
	api.Patch("/projects/:id/complete", h.completeProject)
	api.Get("/projects/:id/steps", h.projectSteps)
	api.Put("/projects/:id/steps/order", h.reorderSteps)
	api.Post("/project-steps", h.createStep)
	api.Patch("/project-steps/:id/toggle", h.toggleStep)

	api.Get("/tags", h.listTags)
	api.Post("/tags", h.createTag)
	api.Delete("/tags/:id", h.deleteTag)

	api.Get("/brain-dump", h.listBrainDump)
	api.Post("/brain-dump", h.addBrainDump)
	api.Patch("/brain-dump/:id", h.updateBrainDump)
	api.Patch("/brain-dump/:id/category", h.setCategory)
	api.Patch("/brain-dump/:id/archive", h.archiveBrainDump)
	api.Delete("/brain-dump/:id", h.deleteBrainDump)
	api.Post("/categorize", h.categorize)

	api.Get("/momentum", h.momentum)
	api.Get("/streak", h.streak)
	api.Get("/reflection", h.reflection)

	api.Get("/summaries", h.listSummaries)
	api.Get("/summaries/:date", h.getSummary)
	api.Post("/summaries/:date/snapshot", h.snapshot)
	api.Put("/summaries/:date/reflection", h.setReflection)

	api.Get("/settings", h.getSettings)
	api.Patch("/settings", h.updateSettings)

	api.Get("/export", h.export)
}

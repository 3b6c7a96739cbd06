package catalog

import (
	"asset-core/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
	source  Source
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, source Source) *Handler {
	return &Handler{service: service, source: source}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/diff", h.HandleDiff)
	group.Post("/sync", h.HandleSync)
	group.Get("/schema", h.HandleSchema)
}

// HandleDiff compares the registry with the catalog table.
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Diff(c.Context(), h.source.Snapshot())
	if err != nil {
		l.Error("Catalog diff failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"in_sync": report.InSync(),
		"report":  report,
	})
}

// HandleSync writes the registry into the catalog table.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering catalog sync")

	result, err := h.service.Sync(c.Context(), h.source.Snapshot())
	if err != nil {
		l.Error("Catalog sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// HandleSchema lists catalog columns missing from the database.
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	missing, err := h.service.CheckSchema()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	status := "ok"
	if len(missing) > 0 {
		status = "mismatch"
	}
	return c.JSON(fiber.Map{"status": status, "missing": missing})
}

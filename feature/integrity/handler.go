package integrity

import (
	"asset-core/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/files", h.HandleFilesCheck)
	group.Get("/dependencies", h.HandleDependencyCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})
	if files, err := h.service.CheckFiles(c.Context()); err != nil {
		report["files"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["files"] = files
	}
	report["dependencies"] = h.service.CheckDependencies()

	return c.JSON(report)
}

// HandleFilesCheck checks registry entries against disk.
func (h *Handler) HandleFilesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckFiles(c.Context())
	if err != nil {
		l.Error("File check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleDependencyCheck checks dependency edges against the registry.
func (h *Handler) HandleDependencyCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckDependencies())
}

package inspect

import (
	"errors"

	"asset-core/core/asset"
	"asset-core/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for asset inspection.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inspection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/assets")
	group.Get("/", h.HandleList)
	group.Get("/:handle", h.HandleGet)
	group.Get("/:handle/dependents", h.HandleDependents)
	group.Get("/:handle/dependencies", h.HandleDependencies)
	group.Post("/:handle/reload", h.HandleReload)
	group.Post("/:handle/unload", h.HandleUnload)
	app.Post("/rescan", h.HandleRescan)
}

// HandleList lists registry records.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	typ := uuid.Nil
	if raw := c.Query("type"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid type guid"})
		}
		typ = parsed
	}
	list := h.service.List(typ)
	return c.JSON(fiber.Map{
		"count":  len(list),
		"assets": list,
	})
}

// HandleGet returns one registry record.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	handle, ok := parseHandle(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid handle"})
	}
	meta, err := h.service.Get(handle)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(meta)
}

// HandleDependents lists assets that reference the handle.
func (h *Handler) HandleDependents(c *fiber.Ctx) error {
	handle, ok := parseHandle(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid handle"})
	}
	dependents, err := h.service.Dependents(handle)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"handle": handle, "dependents": dependents})
}

// HandleDependencies lists assets the handle references.
func (h *Handler) HandleDependencies(c *fiber.Ctx) error {
	handle, ok := parseHandle(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid handle"})
	}
	dependencies, err := h.service.Dependencies(handle)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"handle": handle, "dependencies": dependencies})
}

// HandleReload reloads an asset from disk.
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	handle, ok := parseHandle(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid handle"})
	}

	flags, err := h.service.Reload(handle)
	if err != nil {
		return respondError(c, err)
	}
	if flags != 0 {
		l.Warn("Reloaded asset is not valid", zap.Stringer("handle", handle), zap.Stringer("flags", flags))
	}
	return c.JSON(fiber.Map{
		"handle": handle,
		"valid":  flags == 0,
		"flags":  flags.String(),
	})
}

// HandleUnload drops the cached instance of an asset.
func (h *Handler) HandleUnload(c *fiber.Ctx) error {
	handle, ok := parseHandle(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid handle"})
	}
	unloaded, err := h.service.Unload(handle)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"handle": handle, "unloaded": unloaded})
}

// HandleRescan walks the asset directories again.
func (h *Handler) HandleRescan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering asset rescan")

	report, err := h.service.Rescan(c.Context())
	if err != nil {
		l.Error("Rescan failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

func parseHandle(c *fiber.Ctx) (asset.Handle, bool) {
	h, err := asset.ParseHandle(c.Params("handle"))
	return h, err == nil && h.IsValid()
}

func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

package integrity

import (
	"abscomp/core/logger"

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
	group.Get("/libraries", h.HandleLibraryCheck)
	group.Get("/bucket", h.HandleBucketCheck)
}

// HandleIntegrityCheck runs all integrity checks.
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.Run(c.UserContext())
	if !report.Healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleLibraryCheck pings both libraries.
func (h *Handler) HandleLibraryCheck(c *fiber.Ctx) error {
	reports := h.service.CheckLibraries(c.UserContext())
	for _, r := range reports {
		if !r.OK() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"libraries": reports})
		}
	}
	return c.JSON(fiber.Map{"libraries": reports})
}

// HandleBucketCheck inspects the report bucket.
func (h *Handler) HandleBucketCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if !h.service.BucketEnabled() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "object storage is disabled"})
	}

	report, err := h.service.CheckBucket(c.UserContext())
	if err != nil {
		l.Error("Bucket check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

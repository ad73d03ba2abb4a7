package comparison

import (
	"bytes"
	"fmt"

	"abscomp/core/compare"
	"abscomp/core/logger"
	"abscomp/core/report"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the comparison routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/comparison")
	group.Get("/", h.HandleSummary)
	group.Get("/:dataset", h.HandleDataset)
}

// HandleSummary returns the comparison summary and conflicts.
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Result(c.UserContext(), c.QueryBool("refresh"))
	if err != nil {
		l.Error("Comparison failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	one, two := h.service.Libraries()
	return c.JSON(fiber.Map{
		"libraries":     fiber.Map{"one": one, "two": two},
		"summary":       result.Summary,
		"one_conflicts": result.OneConflicts,
		"two_conflicts": result.TwoConflicts,
		"fetch_ms":      fiber.Map{"one": result.FetchOne.Milliseconds(), "two": result.FetchTwo.Milliseconds()},
		"built":         result.Built,
		"datasets":      compare.Datasets,
	})
}

// HandleDataset streams one dataset in the requested format.
func (h *Handler) HandleDataset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	name := compare.Dataset(c.Params("dataset"))
	format, err := report.ParseFormat(c.Query("format", string(report.FormatJSON)))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.Result(c.UserContext(), c.QueryBool("refresh"))
	if err != nil {
		l.Error("Comparison failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	dataset, ok := result.Dataset(name)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":    fmt.Sprintf("unknown dataset %q", name),
			"datasets": compare.Datasets,
		})
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, name, dataset, format); err != nil {
		l.Error("Failed to render dataset", zap.String("dataset", string(name)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("%s%s.%s", report.FileBase(result.Built), name, format)
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

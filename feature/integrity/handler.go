package integrity

import (
	"errors"

	"filament-sync/core/logger"
	"filament-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/archive", h.HandleArchiveCheck)
	group.Get("/freshness", h.HandleFreshnessCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the schema, archive and freshness checks and combines their reports.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if archive, err := h.service.CheckArchive(c.Context()); errors.Is(err, ErrArchiveDisabled) {
		report["archive"] = map[string]interface{}{"status": "disabled"}
	} else if err != nil {
		report["archive"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["archive"] = archive
	}

	if freshness, err := h.service.CheckFreshness(); err != nil {
		report["freshness"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["freshness"] = freshness
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the catalog schema.
// @Summary Check Schema
// @Description Checks that every catalog table exists with the columns and types the models declare.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Schema drift detected")
	}

	return c.JSON(report)
}

// HandleArchiveCheck checks and optionally fixes the snapshot bucket.
// @Summary Check Snapshot Archive
// @Description Counts archived pass snapshots. Optionally creates the bucket when it is missing.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Create the bucket if missing"
// @Success 200 {object} checks.ArchiveReport "Archive Report"
// @Failure 404 {object} map[string]string "Archive disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/archive [get]
func (h *Handler) HandleArchiveCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckArchive(c.Context())
	if errors.Is(err, ErrArchiveDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Archive check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.BucketExists && fix {
		l.Info("Attempting to create snapshot bucket", zap.String("bucket", report.Bucket))
		if err := h.service.FixArchive(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		report.BucketExists = true
	}

	return c.JSON(report)
}

// HandleFreshnessCheck reports sync freshness.
// @Summary Check Freshness
// @Description Reports the newest last_synced value and whether it is older than the allowed age.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.FreshnessReport "Freshness Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/freshness [get]
func (h *Handler) HandleFreshnessCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckFreshness()
	if err != nil {
		l.Error("Freshness check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if report.Stale {
		l.Warn("Catalog is stale", zap.Int64("age_seconds", report.AgeSeconds))
	}

	return c.JSON(report)
}

package swatch

import (
	"errors"
	"net/url"
	"strings"

	"filament-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the swatch catalog.
type Handler struct {
	query     *QueryService
	scheduler *Scheduler
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. scheduler may be nil.
func NewHandler(query *QueryService, scheduler *Scheduler, logger *zap.Logger) *Handler {
	return &Handler{query: query, scheduler: scheduler, logger: logger}
}

// RegisterRoutes registers the swatch routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/swatches")
	group.Get("/", h.HandleList)
	group.Get("/colors", h.HandleColors)
	group.Get("/manufacturers", h.HandleManufacturers)
	group.Get("/filament-types", h.HandleFilamentTypes)
	group.Get("/search-by-color/:hex", h.HandleSearchByColor)
	group.Get("/stats", h.HandleStats)
	group.Get("/:id", h.HandleGet)

	app.Get("/sync/status", h.HandleSyncStatus)
}

// HandleList returns a filtered page of swatches.
// @Summary List swatches
// @Description Paged listing ordered by publication date, newest first.
// @Tags swatches
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param colorParent query string false "Exact parent color"
// @Param manufacturer query string false "Manufacturer name substring"
// @Param filamentType query string false "Filament type name substring"
// @Param search query string false "Substring of color name, manufacturer or hex"
// @Success 200 {object} PagedResult[models.Swatch]
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /swatches [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	params := ListParams{
		Page:         c.QueryInt("page", 1),
		PageSize:     c.QueryInt("pageSize", defaultPageSize),
		ColorParent:  c.Query("colorParent"),
		Manufacturer: c.Query("manufacturer"),
		FilamentType: c.Query("filamentType"),
		Search:       c.Query("search"),
	}

	result, err := h.query.List(c.UserContext(), params)
	if err != nil {
		return h.fail(c, "List swatches failed", err)
	}
	return c.JSON(result)
}

// HandleGet returns one swatch with its color matches.
// @Summary Get swatch
// @Tags swatches
// @Produce json
// @Param id path int true "Swatch ID"
// @Success 200 {object} models.Swatch
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /swatches/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid swatch id"})
	}

	sw, err := h.query.Get(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return h.fail(c, "Get swatch failed", err)
	}
	return c.JSON(sw)
}

// HandleColors returns the distinct parent colors.
// @Summary List parent colors
// @Tags swatches
// @Produce json
// @Success 200 {array} string
// @Router /swatches/colors [get]
func (h *Handler) HandleColors(c *fiber.Ctx) error {
	colors, err := h.query.Colors(c.UserContext())
	if err != nil {
		return h.fail(c, "List colors failed", err)
	}
	return c.JSON(colors)
}

// HandleManufacturers returns all manufacturers.
// @Summary List manufacturers
// @Tags swatches
// @Produce json
// @Success 200 {array} models.Manufacturer
// @Router /swatches/manufacturers [get]
func (h *Handler) HandleManufacturers(c *fiber.Ctx) error {
	out, err := h.query.Manufacturers(c.UserContext())
	if err != nil {
		return h.fail(c, "List manufacturers failed", err)
	}
	return c.JSON(out)
}

// HandleFilamentTypes returns all filament types.
// @Summary List filament types
// @Tags swatches
// @Produce json
// @Success 200 {array} models.FilamentType
// @Router /swatches/filament-types [get]
func (h *Handler) HandleFilamentTypes(c *fiber.Ctx) error {
	out, err := h.query.FilamentTypes(c.UserContext())
	if err != nil {
		return h.fail(c, "List filament types failed", err)
	}
	return c.JSON(out)
}

// HandleSearchByColor returns swatches whose hex contains the given fragment.
// @Summary Search by hex fragment
// @Tags swatches
// @Produce json
// @Param hex path string true "Hex fragment, with or without #"
// @Success 200 {array} models.Swatch
// @Router /swatches/search-by-color/{hex} [get]
func (h *Handler) HandleSearchByColor(c *fiber.Ctx) error {
	hex, err := url.PathUnescape(c.Params("hex"))
	hex = strings.TrimSpace(hex)
	if err != nil || hex == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hex is required"})
	}

	out, err := h.query.SearchByHex(c.UserContext(), hex)
	if err != nil {
		return h.fail(c, "Search by color failed", err)
	}
	return c.JSON(out)
}

// HandleStats returns catalog statistics.
// @Summary Catalog statistics
// @Tags swatches
// @Produce json
// @Success 200 {object} Stats
// @Router /swatches/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.query.Stats(c.UserContext())
	if err != nil {
		return h.fail(c, "Stats failed", err)
	}
	return c.JSON(stats)
}

// HandleSyncStatus reports the scheduler state and the last pass.
// @Summary Sync status
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /sync/status [get]
func (h *Handler) HandleSyncStatus(c *fiber.Ctx) error {
	if h.scheduler == nil {
		return c.JSON(fiber.Map{"state": "disabled"})
	}

	resp := fiber.Map{
		"state": h.scheduler.State(),
		"runs":  h.scheduler.Runs(),
	}
	if last, ok := h.scheduler.LastResult(); ok {
		resp["lastPass"] = last
		if last.Err != nil {
			resp["lastError"] = last.Err.Error()
		}
	}
	return c.JSON(resp)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	logger.WithRayID(h.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

package matcher

import (
	"net/url"
	"strings"

	"filament-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for color matching.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the matcher routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/match")
	group.Get("/:hex", h.HandleMatch)
	group.Post("/reload", h.HandleReload)
}

// HandleMatch returns the swatches closest to a color.
// @Summary Nearest swatches
// @Description Euclidean RGB distance over all swatches. Malformed colors are treated as black.
// @Tags match
// @Produce json
// @Param hex path string true "Hex color, with or without #"
// @Param count query int false "Number of matches" default(5)
// @Success 200 {array} Match
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /match/{hex} [get]
func (h *Handler) HandleMatch(c *fiber.Ctx) error {
	hex, err := url.PathUnescape(c.Params("hex"))
	if err != nil {
		hex = c.Params("hex")
	}

	matches, err := h.service.Closest(c.UserContext(), strings.TrimSpace(hex), c.QueryInt("count", 0))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Color match failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(matches)
}

// HandleReload rebuilds the swatch snapshot.
// @Summary Reload matcher snapshot
// @Tags match
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /match/reload [post]
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	n, err := h.service.Reload(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Matcher reload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"candidates": n})
}

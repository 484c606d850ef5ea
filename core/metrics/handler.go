package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns a fiber handler that serves the recorder's registry.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}

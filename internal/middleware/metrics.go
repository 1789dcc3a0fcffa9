package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tritonlifts/api/internal/telemetry/metrics"
)

func RequestMetrics(metricsManager *metrics.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if metricsManager == nil {
			return c.Next()
		}

		metricsManager.GaugeRequests.Inc()
		started := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Path()
		if matched := c.Route(); matched != nil && matched.Path != "" {
			route = matched.Path
		}
		statusCode := strconv.Itoa(status)

		metricsManager.GaugeRequests.Dec()
		metricsManager.CounterRequests.WithLabelValues(c.Method(), statusCode).Inc()
		metricsManager.HistogramRequestDuration.
			WithLabelValues(route, c.Method(), statusCode).
			Observe(time.Since(started).Seconds())

		return err
	}
}

package middleware

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/tritonlifts/api/internal/telemetry/metrics"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit limits each user to allowedPerMin requests per minute on the
// routes it guards. It must run after SessionRequired.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rateLimiter == nil || allowedPerMin <= 0 {
			return c.Next()
		}

		key := routerName
		if userID, ok := c.Locals(LocalUserID).(int64); ok {
			key = routerName + ":" + strconv.FormatInt(userID, 10)
		}

		res, err := rateLimiter.Allow(c.UserContext(), key, redis_rate.PerMinute(allowedPerMin))
		if err != nil {
			logrus.WithError(err).WithField("key", key).Error("rate limit check failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "rate limit internal error",
			})
		}

		if res.Allowed > 0 {
			return c.Next()
		}

		if metricsManager != nil {
			metricsManager.CounterRateLimitedRequests.Inc()
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(res.RetryAfter.Seconds()+0.5)))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": fmt.Sprintf("retry after %.0f seconds", res.RetryAfter.Seconds()),
		})
	}
}

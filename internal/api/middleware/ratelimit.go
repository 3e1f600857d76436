package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-tracking/internal/api/metrics"
	"github.com/99minutos/carrier-tracking/internal/core/domain"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
)

// RateLimit throttles requests per client IP. Limiter failures let the
// request through.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			ok, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.Inc()
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}

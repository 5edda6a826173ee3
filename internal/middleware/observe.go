package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/parkease/parking-slot-reservation/internal/metrics"
)

// RequestLogger logs one structured line per request and feeds the
// per-endpoint request counter. The endpoint label uses the
// registered route pattern, not the raw path, so metrics cardinality
// stays bounded.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			metrics.IncHTTP(route)

			log.Info().
				Str("method", c.Request().Method).
				Str("route", route).
				Int("status", c.Response().Status).
				Dur("elapsed", time.Since(start)).
				Str("ip", c.RealIP()).
				Msg("request")
			return nil
		}
	}
}
